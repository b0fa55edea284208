package models

// TransactionStatus is the finality state of a submitted transaction as seen
// by the poller. Only ACCEPTED and REJECTED are terminal; everything else is
// an intermediate state whose exact value is defined by the network.
type TransactionStatus string

const (
	TransactionStatusNotReceived TransactionStatus = "NOT_RECEIVED"
	TransactionStatusReceived    TransactionStatus = "RECEIVED"
	TransactionStatusPending     TransactionStatus = "PENDING"
	TransactionStatusAccepted    TransactionStatus = "ACCEPTED"
	TransactionStatusRejected    TransactionStatus = "REJECTED"
)

// IsTerminal reports whether no further status change can occur
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusAccepted || s == TransactionStatusRejected
}

// Receipt is the subset of a transaction receipt the lifecycle needs
type Receipt struct {
	TransactionHash string
	FinalityStatus  string // Raw network finality status, e.g. ACCEPTED_ON_L2
	ExecutionStatus string // SUCCEEDED or REVERTED when reported
	RevertReason    string
	Status          TransactionStatus
}
