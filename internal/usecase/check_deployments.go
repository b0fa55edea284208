package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// DeploymentCheck is the on-chain state of one recorded deployment
type DeploymentCheck struct {
	Name      string `json:"name" yaml:"name"`
	Address   string `json:"address" yaml:"address"`
	Exists    bool   `json:"exists" yaml:"exists"`
	ClassHash string `json:"classHash,omitempty" yaml:"classHash,omitempty"` // Class deployed at Address
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Healthy reports whether the contract exists and runs the recorded class
func (c *DeploymentCheck) Healthy() bool {
	return c.Exists && c.Reason == ""
}

// CheckDeployments verifies every recorded deployment against the node
type CheckDeployments struct {
	config   *config.RuntimeConfig
	registry *ShowRegistry
	ledger   LedgerClient
	sink     ProgressSink
}

// NewCheckDeployments creates a new CheckDeployments use case
func NewCheckDeployments(cfg *config.RuntimeConfig, registry *ShowRegistry, ledger LedgerClient, sink ProgressSink) *CheckDeployments {
	return &CheckDeployments{
		config:   cfg,
		registry: registry,
		ledger:   ledger,
		sink:     sink,
	}
}

// Run queries the class at each recorded address. Node failures abort the
// whole check; a missing contract or a class other than the declared one is
// reported per entry.
func (uc *CheckDeployments) Run(ctx context.Context) ([]*DeploymentCheck, error) {
	view, err := uc.registry.Run(ctx)
	if err != nil {
		return nil, err
	}

	var entries []RegistryEntry
	for _, entry := range view.Entries {
		if entry.Deployment != nil {
			entries = append(entries, entry)
		}
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "checking",
		Message: fmt.Sprintf("Checking %d deployments", len(entries)),
		Total:   len(entries),
		Spinner: true,
	})

	mapper := iter.Mapper[RegistryEntry, *DeploymentCheck]{MaxGoroutines: uc.config.Concurrency}
	checks, err := mapper.MapErr(entries, func(entry *RegistryEntry) (*DeploymentCheck, error) {
		return uc.check(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Message: fmt.Sprintf("Checked %d deployments", len(checks)),
	})
	return checks, nil
}

func (uc *CheckDeployments) check(ctx context.Context, entry *RegistryEntry) (*DeploymentCheck, error) {
	check := &DeploymentCheck{Name: entry.Name, Address: entry.Deployment.Address}

	address, err := felt.FromString(entry.Deployment.Address)
	if err != nil {
		check.Reason = fmt.Sprintf("invalid address: %v", err)
		return check, nil
	}

	classHash, err := uc.ledger.ClassHashAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", entry.Name, err)
	}
	if classHash == nil {
		check.Reason = "no contract at address"
		return check, nil
	}

	check.Exists = true
	check.ClassHash = classHash.String()
	if entry.ClassHash == "" {
		return check, nil
	}
	if recorded, err := felt.FromString(entry.ClassHash); err != nil || !recorded.Equal(classHash) {
		check.Reason = fmt.Sprintf("class %s differs from declared %s", classHash, entry.ClassHash)
	}
	return check, nil
}
