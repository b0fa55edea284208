package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/felt"
)

// deployedAddress resolves the address of a deployed contract, preferring an
// explicit override over the deployment registry
func deployedAddress(ctx context.Context, deployments DeploymentStore, name string, override *felt.Felt) (*felt.Felt, error) {
	if override != nil {
		return override, nil
	}

	records, err := deployments.Load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (no deployment registry yet)", domain.ErrNotDeployed, name)
	}
	if err != nil {
		return nil, err
	}

	record, ok := records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDeployed, name)
	}
	address, err := felt.FromString(record.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: address of %s: %v", domain.ErrRegistryUnavailable, name, err)
	}
	return address, nil
}
