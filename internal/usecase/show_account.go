package usecase

import "context"

// ShowAccount is the use case for describing the configured signer
type ShowAccount struct {
	ledger LedgerClient
}

// NewShowAccount creates a new ShowAccount use case
func NewShowAccount(ledger LedgerClient) *ShowAccount {
	return &ShowAccount{ledger: ledger}
}

// Run returns the signer address, its public key and the node's chain id
func (uc *ShowAccount) Run(ctx context.Context) (*AccountInfo, error) {
	return uc.ledger.Account(ctx)
}
