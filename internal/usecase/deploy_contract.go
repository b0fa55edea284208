package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// DeployParams contains parameters for deploying a contract
type DeployParams struct {
	Name string
	Args []*felt.Felt
}

// DeployResult is the outcome of a deploy
type DeployResult struct {
	Name      string
	ClassHash *felt.Felt
	Record    models.DeploymentRecord
	Salt      *felt.Felt
	Receipt   *models.Receipt
}

// DeployContract is the use case for deploying a declared class
type DeployContract struct {
	config       *config.RuntimeConfig
	compiler     ArtifactCompiler
	ledger       LedgerClient
	poller       FinalityPoller
	declarations DeclarationStore
	deployments  DeploymentStore
	log          *slog.Logger
	sink         ProgressSink
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	compiler ArtifactCompiler,
	ledger LedgerClient,
	poller FinalityPoller,
	declarations DeclarationStore,
	deployments DeploymentStore,
	log *slog.Logger,
	sink ProgressSink,
) *DeployContract {
	return &DeployContract{
		config:       cfg,
		compiler:     compiler,
		ledger:       ledger,
		poller:       poller,
		declarations: declarations,
		deployments:  deployments,
		log:          log.With("component", "DeployContract"),
		sink:         sink,
	}
}

// Run deploys the declared class of params.Name and records the deployment
// once the transaction is accepted
func (uc *DeployContract) Run(ctx context.Context, params DeployParams) (*DeployResult, error) {
	classHash, err := uc.classHash(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageSubmitting),
		Message: fmt.Sprintf("Deploying %s", params.Name),
		Spinner: true,
	})
	submitted, err := uc.ledger.SubmitDeploy(ctx, classHash, params.Args, uc.config.MaxFee)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", params.Name, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    string(StageWaiting),
		Message:  fmt.Sprintf("Waiting for deploy of %s", params.Name),
		Spinner:  true,
		Metadata: submitted.TxHash,
	})
	receipt, err := uc.poller.AwaitFinality(ctx, submitted.TxHash)
	if err != nil {
		return nil, fmt.Errorf("deploy of %s: %w", params.Name, err)
	}
	if receipt.Status == models.TransactionStatusRejected {
		return nil, &domain.TransactionRejectedError{TxHash: submitted.TxHash.String(), Reason: receipt.RevertReason}
	}

	record := models.DeploymentRecord{
		Address:  submitted.Address.String(),
		TxHash:   submitted.TxHash.String(),
		Artifact: uc.artifactPath(params.Name),
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageRecording),
		Message: "Updating deployment registry",
		Spinner: true,
	})
	err = uc.deployments.Update(ctx, func(d models.Deployments) error {
		d[params.Name] = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("deployed contract", "contract", params.Name, "address", record.Address, "tx", record.TxHash)
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Message: fmt.Sprintf("Deployed %s at %s", params.Name, record.Address),
	})

	return &DeployResult{
		Name:      params.Name,
		ClassHash: classHash,
		Record:    record,
		Salt:      submitted.Salt,
		Receipt:   receipt,
	}, nil
}

// classHash reads the recorded class hash of name. Nothing is sent to the
// node when the contract was never declared.
func (uc *DeployContract) classHash(ctx context.Context, name string) (*felt.Felt, error) {
	declarations, err := uc.declarations.Load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s has not been declared (no class-hash registry yet)", domain.ErrUnknownContract, name)
	}
	if err != nil {
		return nil, err
	}

	recorded, ok := declarations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has not been declared", domain.ErrUnknownContract, name)
	}
	classHash, err := felt.FromString(recorded)
	if err != nil {
		return nil, fmt.Errorf("%w: class hash of %s: %v", domain.ErrRegistryUnavailable, name, err)
	}
	return classHash, nil
}

// artifactPath is the artifact location recorded with a deployment, relative
// to the project root when possible
func (uc *DeployContract) artifactPath(name string) string {
	path := uc.compiler.ArtifactPath(name)
	if rel, err := filepath.Rel(uc.config.ProjectRoot, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
