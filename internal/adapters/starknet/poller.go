package starknet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// ReceiptSource is what the poller needs from the ledger
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error)
}

// FinalityPoller waits for transactions to reach ACCEPTED or REJECTED
type FinalityPoller struct {
	log      *slog.Logger
	receipts ReceiptSource
	interval time.Duration
	timeout  time.Duration
}

// Ensure FinalityPoller implements the interface
var _ usecase.FinalityPoller = (*FinalityPoller)(nil)

// NewFinalityPoller creates a poller using the configured interval and timeout
func NewFinalityPoller(cfg *config.RuntimeConfig, receipts ReceiptSource, log *slog.Logger) *FinalityPoller {
	return &FinalityPoller{
		log:      log.With("component", "FinalityPoller"),
		receipts: receipts,
		interval: cfg.PollInterval,
		timeout:  cfg.FinalityTimeout,
	}
}

// AwaitFinality polls the receipt of txHash until it is terminal. Each round
// waits one interval before asking the node. A zero timeout waits forever.
func (p *FinalityPoller) AwaitFinality(ctx context.Context, txHash *felt.Felt) (*models.Receipt, error) {
	parent := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.timeout, domain.ErrTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	status := models.TransactionStatusNotReceived
	for polls := 1; ; polls++ {
		select {
		case <-ctx.Done():
			return nil, p.doneErr(parent, ctx, txHash, status)
		case <-ticker.C:
		}

		r, err := p.receipts.TransactionReceipt(ctx, txHash)
		if err != nil {
			if ctx.Err() != nil {
				return nil, p.doneErr(parent, ctx, txHash, status)
			}
			return nil, err
		}

		if r.Status != status {
			p.log.Debug("transaction status changed", "tx", txHash.String(), "from", status, "to", r.Status, "polls", polls)
			status = r.Status
		}
		if status.IsTerminal() {
			return r, nil
		}
	}
}

// doneErr tells a finality timeout apart from caller cancellation
func (p *FinalityPoller) doneErr(parent, ctx context.Context, txHash *felt.Felt, last models.TransactionStatus) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(context.Cause(ctx), domain.ErrTimeout) {
		return fmt.Errorf("%w: %s still %s after %s", domain.ErrTimeout, txHash.String(), last, p.timeout)
	}
	return ctx.Err()
}
