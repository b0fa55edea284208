package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/iter"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// DeclareParams contains parameters for declaring a contract
type DeclareParams struct {
	Name string
	// SkipDeclared skips submission when the registry already holds the
	// locally computed class hash
	SkipDeclared bool
}

// DeclareResult is the outcome of a declare
type DeclareResult struct {
	Name      string
	ClassHash *felt.Felt
	TxHash    *felt.Felt // nil when a recorded declaration was skipped
	Receipt   *models.Receipt
	Skipped   bool
	Err       error
}

// DeclareContract is the use case for declaring a contract class
type DeclareContract struct {
	config       *config.RuntimeConfig
	compile      *CompileContracts
	hasher       ClassHasher
	ledger       LedgerClient
	poller       FinalityPoller
	declarations DeclarationStore
	log          *slog.Logger
	sink         ProgressSink
}

// NewDeclareContract creates a new DeclareContract use case
func NewDeclareContract(
	cfg *config.RuntimeConfig,
	compile *CompileContracts,
	hasher ClassHasher,
	ledger LedgerClient,
	poller FinalityPoller,
	declarations DeclarationStore,
	log *slog.Logger,
	sink ProgressSink,
) *DeclareContract {
	return &DeclareContract{
		config:       cfg,
		compile:      compile,
		hasher:       hasher,
		ledger:       ledger,
		poller:       poller,
		declarations: declarations,
		log:          log.With("component", "DeclareContract"),
		sink:         sink,
	}
}

// Run compiles the contract if needed, declares it and records its class hash
// once the declare is accepted. A rejected declare leaves the registry as it was.
// The declare is always submitted unless SkipDeclared is set.
func (uc *DeclareContract) Run(ctx context.Context, params DeclareParams) (*DeclareResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompiling),
		Message: fmt.Sprintf("Preparing artifact for %s", params.Name),
		Spinner: true,
	})
	artifact, err := uc.compile.EnsureArtifact(ctx, params.Name)
	if err != nil {
		return nil, err
	}

	if params.SkipDeclared {
		if result, ok := uc.alreadyDeclared(ctx, params.Name, artifact); ok {
			return result, nil
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageSubmitting),
		Message: fmt.Sprintf("Declaring %s", params.Name),
		Spinner: true,
	})
	submitted, err := uc.ledger.SubmitDeclare(ctx, artifact, uc.config.MaxFee)
	if err != nil {
		return nil, fmt.Errorf("failed to declare %s: %w", params.Name, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    string(StageWaiting),
		Message:  fmt.Sprintf("Waiting for declare of %s", params.Name),
		Spinner:  true,
		Metadata: submitted.TxHash,
	})
	receipt, err := uc.poller.AwaitFinality(ctx, submitted.TxHash)
	if err != nil {
		return nil, fmt.Errorf("declare of %s: %w", params.Name, err)
	}
	if receipt.Status == models.TransactionStatusRejected {
		return nil, &domain.TransactionRejectedError{TxHash: submitted.TxHash.String(), Reason: receipt.RevertReason}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageRecording),
		Message: "Updating class-hash registry",
		Spinner: true,
	})
	err = uc.declarations.Update(ctx, func(d models.Declarations) error {
		d[params.Name] = submitted.ClassHash.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("declared contract", "contract", params.Name, "class_hash", submitted.ClassHash.String(), "tx", submitted.TxHash.String())
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Message: fmt.Sprintf("Declared %s", params.Name),
	})

	return &DeclareResult{
		Name:      params.Name,
		ClassHash: submitted.ClassHash,
		TxHash:    submitted.TxHash,
		Receipt:   receipt,
	}, nil
}

// alreadyDeclared reports a recorded declaration of the same class. Registry
// problems are not fatal here; the declare simply goes ahead.
func (uc *DeclareContract) alreadyDeclared(ctx context.Context, name string, artifact *models.ContractArtifact) (*DeclareResult, bool) {
	declarations, err := uc.declarations.Load(ctx)
	if err != nil {
		return nil, false
	}
	recorded, ok := declarations[name]
	if !ok {
		return nil, false
	}

	classHash, err := uc.hasher.ClassHash(artifact)
	if err != nil {
		uc.log.Debug("could not compute class hash", "contract", name, "error", err)
		return nil, false
	}
	if recordedHash, err := felt.FromString(recorded); err != nil || !recordedHash.Equal(classHash) {
		return nil, false
	}

	uc.log.Info("class already declared", "contract", name, "class_hash", recorded)
	return &DeclareResult{Name: name, ClassHash: classHash, Skipped: true}, true
}

// DeclareContracts declares several contracts concurrently. Each contract's
// pipeline runs in order; registry writes go through the store's Update.
type DeclareContracts struct {
	config  *config.RuntimeConfig
	declare *DeclareContract
}

// NewDeclareContracts creates a new DeclareContracts use case
func NewDeclareContracts(cfg *config.RuntimeConfig, declare *DeclareContract) *DeclareContracts {
	return &DeclareContracts{config: cfg, declare: declare}
}

// Run declares every name and returns one result per name, in order
func (uc *DeclareContracts) Run(ctx context.Context, names []string, skipDeclared bool) []*DeclareResult {
	mapper := iter.Mapper[string, *DeclareResult]{MaxGoroutines: uc.config.Concurrency}
	return mapper.Map(names, func(name *string) *DeclareResult {
		result, err := uc.declare.Run(ctx, DeclareParams{Name: *name, SkipDeclared: skipDeclared})
		if err != nil {
			return &DeclareResult{Name: *name, Err: err}
		}
		return result
	})
}
