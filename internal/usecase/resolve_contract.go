package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// ResolveContract is the use case for turning a contract name into a source
type ResolveContract struct {
	config   *config.RuntimeConfig
	index    ContractIndex
	selector ContractSelector
	sink     ProgressSink
}

// NewResolveContract creates a new ResolveContract use case
func NewResolveContract(
	cfg *config.RuntimeConfig,
	index ContractIndex,
	selector ContractSelector,
	sink ProgressSink,
) *ResolveContract {
	return &ResolveContract{
		config:   cfg,
		index:    index,
		selector: selector,
		sink:     sink,
	}
}

// Run resolves name to exactly one source. An empty name, or a name shared by
// several sources, falls back to an interactive prompt when prompts are allowed.
func (uc *ResolveContract) Run(ctx context.Context, name string) (*models.ContractSource, error) {
	if name == "" {
		if !uc.interactive() {
			return nil, fmt.Errorf("%w: no contract name given", domain.ErrAmbiguousOrMissingContract)
		}
		sources, err := uc.index.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(sources) == 0 {
			return nil, fmt.Errorf("%w: no contracts found under %s", domain.ErrAmbiguousOrMissingContract, uc.config.SourceDir)
		}
		return uc.selector.SelectContract(ctx, sources, "Select a contract:")
	}

	source, err := uc.index.Resolve(ctx, name)
	if err == nil {
		return source, nil
	}

	var lookupErr *domain.ContractLookupError
	if !errors.As(err, &lookupErr) || len(lookupErr.Matches) < 2 || !uc.interactive() {
		return nil, err
	}

	candidates := make([]*models.ContractSource, 0, len(lookupErr.Matches))
	for _, path := range lookupErr.Matches {
		candidates = append(candidates, &models.ContractSource{Name: name, Path: path})
	}
	selected, err := uc.selector.SelectContract(ctx, candidates, fmt.Sprintf("Multiple sources found for '%s'. Select one:", name))
	if err != nil {
		return nil, fmt.Errorf("contract selection failed: %w", err)
	}
	return selected, nil
}

func (uc *ResolveContract) interactive() bool {
	return uc.selector != nil && !uc.config.NonInteractive
}
