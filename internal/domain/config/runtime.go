package config

import (
	"fmt"
	"time"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// RuntimeConfig represents the complete runtime configuration.
// It is resolved once at start-up and injected into adapters and use cases.
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	SourceDir      string // Absolute path scanned for contract sources
	BuildDir       string // Absolute path artifacts are written to
	DeploymentsDir string // Absolute path holding both registries

	Compiler CompilerConfig
	Network  NetworkConfig
	Account  AccountConfig

	// Transaction settings
	MaxFee          *felt.Felt
	PollInterval    time.Duration
	FinalityTimeout time.Duration
	RetryAttempts   uint64

	// Execution settings
	Concurrency    int
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration

	// Config source tracking
	ConfigSource string // "starkdeploy.toml" or "defaults"
}

// CompilerConfig configures the external compiler invocation
type CompilerConfig struct {
	Command    string
	CairoPaths []string // Extra include paths appended after the source root
}

// NetworkConfig describes the node the orchestrator talks to
type NetworkConfig struct {
	RPCURL       string
	ExplorerURL  string
	CairoVersion int // Account calldata layout: 0 or 1
}

// AccountConfig is the signer identity used for every transaction
type AccountConfig struct {
	Address    string
	PrivateKey string //nolint:gosec // resolved from the environment
}

// ValidateSigner checks the signer identity is present and well formed
func (c *RuntimeConfig) ValidateSigner() error {
	if c.Account.Address == "" {
		return fmt.Errorf("%w: ACCOUNT_ADDRESS is not set", domain.ErrMissingSigner)
	}
	if c.Account.PrivateKey == "" {
		return fmt.Errorf("%w: PRIVATE_KEY is not set", domain.ErrMissingSigner)
	}
	if _, err := felt.FromString(c.Account.Address); err != nil {
		return fmt.Errorf("%w: invalid account address: %v", domain.ErrMissingSigner, err)
	}
	if _, err := felt.FromString(c.Account.PrivateKey); err != nil {
		return fmt.Errorf("%w: invalid private key", domain.ErrMissingSigner)
	}
	return nil
}
