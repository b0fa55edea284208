package fs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// SourceExtension is the extension of indexed contract sources
const SourceExtension = ".cairo"

const maxSuggestions = 3

// ContractIndexer indexes contract sources by file stem. Several files
// sharing a stem are kept and reported when the stem is resolved.
type ContractIndexer struct {
	projectRoot string
	sourceDir   string
	log         *slog.Logger

	once    sync.Once
	err     error
	sources map[string][]*models.ContractSource
}

// NewContractIndexer creates an indexer over the configured source root.
// The scan is deferred until the index is first used.
func NewContractIndexer(cfg *config.RuntimeConfig, log *slog.Logger) *ContractIndexer {
	return &ContractIndexer{
		projectRoot: cfg.ProjectRoot,
		sourceDir:   cfg.SourceDir,
		log:         log.With("component", "ContractIndexer"),
	}
}

func (c *ContractIndexer) index() error {
	c.once.Do(func() {
		c.sources = make(map[string][]*models.ContractSource)
		c.err = filepath.WalkDir(c.sourceDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != SourceExtension {
				return nil
			}

			rel, err := filepath.Rel(c.projectRoot, path)
			if err != nil {
				rel = path
			}
			name := strings.TrimSuffix(d.Name(), SourceExtension)
			c.sources[name] = append(c.sources[name], &models.ContractSource{Name: name, Path: rel})
			return nil
		})
		if c.err != nil {
			c.err = fmt.Errorf("failed to index contract sources in %s: %w", c.sourceDir, c.err)
			return
		}

		for name, matches := range c.sources {
			if len(matches) > 1 {
				c.log.Warn("duplicate contract name", "name", name, "count", len(matches))
			}
		}
		c.log.Debug("indexed contract sources", "count", len(c.sources))
	})
	return c.err
}

// Resolve returns the single source whose stem is name
func (c *ContractIndexer) Resolve(ctx context.Context, name string) (*models.ContractSource, error) {
	if err := c.index(); err != nil {
		return nil, err
	}

	matches := c.sources[name]
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, &domain.ContractLookupError{
			Name:        name,
			Suggestions: c.suggest(name),
		}
	default:
		paths := lo.Map(matches, func(s *models.ContractSource, _ int) string { return s.Path })
		sort.Strings(paths)
		return nil, &domain.ContractLookupError{Name: name, Matches: paths}
	}
}

// List returns every unambiguous source sorted by name
func (c *ContractIndexer) List(ctx context.Context) ([]*models.ContractSource, error) {
	if err := c.index(); err != nil {
		return nil, err
	}

	var out []*models.ContractSource
	for _, matches := range c.sources {
		if len(matches) == 1 {
			out = append(out, matches[0])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Duplicates returns the stems shared by several source files
func (c *ContractIndexer) Duplicates(ctx context.Context) ([]string, error) {
	if err := c.index(); err != nil {
		return nil, err
	}
	dups := lo.Keys(lo.PickBy(c.sources, func(_ string, matches []*models.ContractSource) bool {
		return len(matches) > 1
	}))
	sort.Strings(dups)
	return dups, nil
}

func (c *ContractIndexer) suggest(name string) []string {
	names := lo.Keys(c.sources)
	sort.Strings(names)

	matches := fuzzy.Find(strings.ToLower(name), lo.Map(names, func(n string, _ int) string {
		return strings.ToLower(n)
	}))
	suggestions := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, names[m.Index])
	}
	return suggestions
}

// Ensure the indexer implements the interface
var _ usecase.ContractIndex = (*ContractIndexer)(nil)
