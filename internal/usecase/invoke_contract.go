package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// InvokeParams contains parameters for invoking a contract function
type InvokeParams struct {
	Name     string
	Address  *felt.Felt // Overrides the deployment registry when set
	Function string
	Args     []*felt.Felt
}

// InvokeResult is the outcome of an accepted invoke
type InvokeResult struct {
	Address *felt.Felt
	TxHash  *felt.Felt
	Receipt *models.Receipt
}

// InvokeContract is the use case for sending a state-changing call
type InvokeContract struct {
	config      *config.RuntimeConfig
	ledger      LedgerClient
	poller      FinalityPoller
	deployments DeploymentStore
	log         *slog.Logger
	sink        ProgressSink
}

// NewInvokeContract creates a new InvokeContract use case
func NewInvokeContract(
	cfg *config.RuntimeConfig,
	ledger LedgerClient,
	poller FinalityPoller,
	deployments DeploymentStore,
	log *slog.Logger,
	sink ProgressSink,
) *InvokeContract {
	return &InvokeContract{
		config:      cfg,
		ledger:      ledger,
		poller:      poller,
		deployments: deployments,
		log:         log.With("component", "InvokeContract"),
		sink:        sink,
	}
}

// Run invokes a function and waits for the transaction to be final. No
// registry is touched.
func (uc *InvokeContract) Run(ctx context.Context, params InvokeParams) (*InvokeResult, error) {
	address, err := deployedAddress(ctx, uc.deployments, params.Name, params.Address)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageSubmitting),
		Message: fmt.Sprintf("Invoking %s.%s", params.Name, params.Function),
		Spinner: true,
	})
	txHash, err := uc.ledger.SubmitInvoke(ctx, address, params.Function, params.Args, uc.config.MaxFee)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke %s.%s: %w", params.Name, params.Function, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    string(StageWaiting),
		Message:  fmt.Sprintf("Waiting for %s", txHash.String()),
		Spinner:  true,
		Metadata: txHash,
	})
	receipt, err := uc.poller.AwaitFinality(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("invoke of %s.%s: %w", params.Name, params.Function, err)
	}
	if receipt.Status == models.TransactionStatusRejected {
		return nil, &domain.TransactionRejectedError{TxHash: txHash.String(), Reason: receipt.RevertReason}
	}

	uc.log.Info("invoked contract", "contract", params.Name, "function", params.Function, "tx", txHash.String())
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Message: fmt.Sprintf("Invoked %s.%s", params.Name, params.Function),
	})
	return &InvokeResult{Address: address, TxHash: txHash, Receipt: receipt}, nil
}

// CallParams contains parameters for a read-only call
type CallParams struct {
	Name     string
	Address  *felt.Felt // Overrides the deployment registry when set
	Function string
	Args     []*felt.Felt
}

// CallContract is the use case for read-only calls
type CallContract struct {
	ledger      LedgerClient
	deployments DeploymentStore
	sink        ProgressSink
}

// NewCallContract creates a new CallContract use case
func NewCallContract(ledger LedgerClient, deployments DeploymentStore, sink ProgressSink) *CallContract {
	return &CallContract{
		ledger:      ledger,
		deployments: deployments,
		sink:        sink,
	}
}

// Run calls a view function and returns its values at once. Calls are not
// transactions, so there is nothing to wait for.
func (uc *CallContract) Run(ctx context.Context, params CallParams) ([]*felt.Felt, error) {
	address, err := deployedAddress(ctx, uc.deployments, params.Name, params.Address)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCalling),
		Message: fmt.Sprintf("Calling %s.%s", params.Name, params.Function),
		Spinner: true,
	})
	values, err := uc.ledger.SubmitCall(ctx, address, params.Function, params.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s.%s: %w", params.Name, params.Function, err)
	}
	return values, nil
}
