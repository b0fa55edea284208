package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// WaitTransaction is the use case for waiting on an arbitrary transaction
type WaitTransaction struct {
	poller FinalityPoller
	sink   ProgressSink
}

// NewWaitTransaction creates a new WaitTransaction use case
func NewWaitTransaction(poller FinalityPoller, sink ProgressSink) *WaitTransaction {
	return &WaitTransaction{poller: poller, sink: sink}
}

// Run waits until txHash is final. A rejected transaction returns its receipt
// together with a TransactionRejectedError.
func (uc *WaitTransaction) Run(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:    string(StageWaiting),
		Message:  fmt.Sprintf("Waiting for %s", txHash.String()),
		Spinner:  true,
		Metadata: txHash,
	})

	receipt, err := uc.poller.AwaitFinality(ctx, txHash)
	if err != nil {
		return nil, err
	}
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Message: fmt.Sprintf("Transaction %s", receipt.Status),
	})

	if receipt.Status == models.TransactionStatusRejected {
		return receipt, &domain.TransactionRejectedError{TxHash: txHash.String(), Reason: receipt.RevertReason}
	}
	return receipt, nil
}
