package starknet

import (
	"encoding/json"

	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// Wire types for the Starknet JSON-RPC methods the client uses

type deprecatedClass struct {
	Program           string                   `json:"program"`
	EntryPointsByType models.EntryPointsByType `json:"entry_points_by_type"`
	ABI               json.RawMessage          `json:"abi,omitempty"`
}

type declareTxn struct {
	Type          string          `json:"type"`
	SenderAddress *felt.Felt      `json:"sender_address"`
	MaxFee        *felt.Felt      `json:"max_fee"`
	Version       string          `json:"version"`
	Signature     []*felt.Felt    `json:"signature"`
	Nonce         *felt.Felt      `json:"nonce"`
	ContractClass deprecatedClass `json:"contract_class"`
}

type invokeTxn struct {
	Type          string       `json:"type"`
	SenderAddress *felt.Felt   `json:"sender_address"`
	Calldata      []*felt.Felt `json:"calldata"`
	MaxFee        *felt.Felt   `json:"max_fee"`
	Version       string       `json:"version"`
	Signature     []*felt.Felt `json:"signature"`
	Nonce         *felt.Felt   `json:"nonce"`
}

type functionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector"`
	Calldata           []*felt.Felt `json:"calldata"`
}

type declareResult struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash"`
}

type invokeResult struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

// receipt covers both the legacy single status field and the split
// finality/execution statuses of newer nodes
type receipt struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	Status          string     `json:"status"`
	FinalityStatus  string     `json:"finality_status"`
	ExecutionStatus string     `json:"execution_status"`
	RevertReason    string     `json:"revert_reason"`
}

func (r *receipt) toModel(txHash *felt.Felt) *models.Receipt {
	finality := r.FinalityStatus
	if finality == "" {
		finality = r.Status
	}

	hash := txHash.String()
	if r.TransactionHash != nil {
		hash = r.TransactionHash.String()
	}

	return &models.Receipt{
		TransactionHash: hash,
		FinalityStatus:  finality,
		ExecutionStatus: r.ExecutionStatus,
		RevertReason:    r.RevertReason,
		Status:          MapStatus(finality, r.ExecutionStatus),
	}
}

// MapStatus folds the network's finality and execution statuses into the
// lifecycle status. Unknown values are carried through as non-terminal.
func MapStatus(finality, execution string) models.TransactionStatus {
	switch {
	case finality == "REJECTED" || execution == "REVERTED":
		return models.TransactionStatusRejected
	case finality == "ACCEPTED_ON_L2" || finality == "ACCEPTED_ON_L1":
		return models.TransactionStatusAccepted
	case finality == "":
		return models.TransactionStatusPending
	default:
		return models.TransactionStatus(finality)
	}
}
