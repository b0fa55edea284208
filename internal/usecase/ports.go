package usecase

import (
	"context"

	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// ContractIndex resolves contract names to source files
type ContractIndex interface {
	Resolve(ctx context.Context, name string) (*models.ContractSource, error)
	// List returns every source whose stem is unique
	List(ctx context.Context) ([]*models.ContractSource, error)
	// Duplicates returns the stems shared by several sources
	Duplicates(ctx context.Context) ([]string, error)
}

// ArtifactCompiler builds and loads canonical artifacts
type ArtifactCompiler interface {
	// Compile runs the external compiler for one source and normalizes the output
	Compile(ctx context.Context, source *models.ContractSource) (string, error)
	// ArtifactPath returns where the artifact for name lives, compiled or not
	ArtifactPath(name string) string
	// LoadArtifact reads an artifact produced by Compile
	LoadArtifact(ctx context.Context, name string) (*models.ContractArtifact, error)
}

// DeclarationStore persists the class-hash registry
type DeclarationStore interface {
	Load(ctx context.Context) (models.Declarations, error)
	Save(ctx context.Context, declarations models.Declarations) error
	// Update runs a load-merge-save cycle under the store's lock
	Update(ctx context.Context, fn func(models.Declarations) error) error
}

// DeploymentStore persists the deployment registry
type DeploymentStore interface {
	Load(ctx context.Context) (models.Deployments, error)
	Save(ctx context.Context, deployments models.Deployments) error
	Update(ctx context.Context, fn func(models.Deployments) error) error
}

// ClassHasher computes class hashes locally
type ClassHasher interface {
	ClassHash(artifact *models.ContractArtifact) (*felt.Felt, error)
}

// SubmittedDeclare is the node's answer to a declare transaction
type SubmittedDeclare struct {
	ClassHash *felt.Felt
	TxHash    *felt.Felt
}

// SubmittedDeploy is the result of a deploy transaction
type SubmittedDeploy struct {
	Address *felt.Felt
	TxHash  *felt.Felt
	Salt    *felt.Felt
}

// AccountInfo describes the configured signer
type AccountInfo struct {
	Address   *felt.Felt
	PublicKey *felt.Felt
	ChainID   *felt.Felt
}

// LedgerClient is the single point of contact with the node. Every
// transaction is signed by the configured account.
type LedgerClient interface {
	ChainID(ctx context.Context) (*felt.Felt, error)
	Account(ctx context.Context) (*AccountInfo, error)
	SubmitDeclare(ctx context.Context, artifact *models.ContractArtifact, maxFee *felt.Felt) (*SubmittedDeclare, error)
	SubmitDeploy(ctx context.Context, classHash *felt.Felt, ctorArgs []*felt.Felt, maxFee *felt.Felt) (*SubmittedDeploy, error)
	SubmitInvoke(ctx context.Context, address *felt.Felt, function string, args []*felt.Felt, maxFee *felt.Felt) (*felt.Felt, error)
	SubmitCall(ctx context.Context, address *felt.Felt, function string, args []*felt.Felt) ([]*felt.Felt, error)
	TransactionReceipt(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error)
	// ClassHashAt returns nil without error when no contract is deployed at address
	ClassHashAt(ctx context.Context, address *felt.Felt) (*felt.Felt, error)
}

// FinalityPoller drives a submitted transaction to a terminal status. The
// returned receipt always carries ACCEPTED or REJECTED.
type FinalityPoller interface {
	AwaitFinality(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error)
}

// ContractSelector handles interactive selection of contracts
type ContractSelector interface {
	SelectContract(ctx context.Context, sources []*models.ContractSource, prompt string) (*models.ContractSource, error)
}

// Progress tracking interfaces

// ExecutionStage is a step of a lifecycle pipeline
type ExecutionStage string

const (
	StageCompiling  ExecutionStage = "Compiling"
	StageSubmitting ExecutionStage = "Submitting"
	StageWaiting    ExecutionStage = "Waiting"
	StageRecording  ExecutionStage = "Recording"
	StageCalling    ExecutionStage = "Calling"
	StageCompleted  ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
