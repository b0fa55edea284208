package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for lifecycle operations
var (
	// ErrCompilationFailed is returned when the external compiler exits non-zero
	ErrCompilationFailed = errors.New("compilation failed")

	// ErrAmbiguousOrMissingContract is returned when a contract name does not
	// resolve to exactly one source file
	ErrAmbiguousOrMissingContract = errors.New("ambiguous or missing contract")

	// ErrRegistryUnavailable is returned when a registry document is absent or malformed
	ErrRegistryUnavailable = errors.New("registry unavailable")

	// ErrUnknownContract is returned when deploying a contract that was never declared
	ErrUnknownContract = errors.New("unknown contract")

	// ErrNotDeployed is returned when invoking or calling a contract with no deployment record
	ErrNotDeployed = errors.New("contract not deployed")

	// ErrLedgerUnavailable is returned when the node cannot be reached
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrLedgerProtocol is returned when the node answers with an error or an undecodable payload
	ErrLedgerProtocol = errors.New("ledger protocol error")

	// ErrTransactionRejected is returned when a transaction reaches the REJECTED status
	ErrTransactionRejected = errors.New("transaction rejected")

	// ErrTimeout is returned when a transaction does not reach finality in time
	ErrTimeout = errors.New("timed out waiting for transaction finality")

	// ErrMissingSigner is returned when the signer address or private key is not configured
	ErrMissingSigner = errors.New("signer not configured")
)

// CompilationError carries the compiler output of a failed build
type CompilationError struct {
	Name   string
	Stderr string
	Err    error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("failed to compile %s", e.Name)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *CompilationError) Unwrap() []error {
	return compact(ErrCompilationFailed, e.Err)
}

// ContractLookupError describes a contract name that matched zero or several sources
type ContractLookupError struct {
	Name        string
	Matches     []string
	Suggestions []string
}

func (e *ContractLookupError) Error() string {
	if len(e.Matches) > 1 {
		lines := make([]string, 0, len(e.Matches))
		for _, m := range e.Matches {
			lines = append(lines, "  - "+m)
		}
		return fmt.Sprintf("multiple sources found for contract %s:\n%s", e.Name, strings.Join(lines, "\n"))
	}

	msg := fmt.Sprintf("no source found for contract %s", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *ContractLookupError) Unwrap() error {
	return ErrAmbiguousOrMissingContract
}

// RegistryError wraps a failure to read or write a registry document
type RegistryError struct {
	Path string
	Err  error
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry %s unavailable: %v", e.Path, e.Err)
}

func (e *RegistryError) Unwrap() []error {
	return compact(ErrRegistryUnavailable, e.Err)
}

// LedgerError wraps a failed request to the node. Kind is either
// ErrLedgerUnavailable or ErrLedgerProtocol.
type LedgerError struct {
	Method string
	Kind   error
	Code   int
	Err    error
}

func (e *LedgerError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %v (code %d): %v", e.Method, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Method, e.Kind, e.Err)
}

func (e *LedgerError) Unwrap() []error {
	return compact(e.Kind, e.Err)
}

// TransactionRejectedError is returned when a submitted transaction ends REJECTED
type TransactionRejectedError struct {
	TxHash string
	Reason string
}

func (e *TransactionRejectedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transaction %s rejected: %s", e.TxHash, e.Reason)
	}
	return fmt.Sprintf("transaction %s rejected", e.TxHash)
}

func (e *TransactionRejectedError) Unwrap() error {
	return ErrTransactionRejected
}

func compact(errs ...error) []error {
	out := errs[:0:0]
	for _, err := range errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}
