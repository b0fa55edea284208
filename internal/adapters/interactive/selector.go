package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/starkdeploy/internal/domain"
	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
	run    func(promptui.Select) (int, error)
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg, run: runSelect}
}

// SelectContract selects a contract source from a list
func (s *SelectorAdapter) SelectContract(ctx context.Context, sources []*models.ContractSource, prompt string) (*models.ContractSource, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no contracts provided for selection")
	}

	if len(sources) == 1 {
		return sources[0], nil
	}

	options := formatContractOptions(sources)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	index, err := s.run(promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	})
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return sources[index], nil
}

func runSelect(p promptui.Select) (int, error) {
	index, _, err := p.Run()
	return index, err
}

// formatContractOptions creates display strings for contract selection
func formatContractOptions(sources []*models.ContractSource) []string {
	options := make([]string, len(sources))
	for i, source := range sources {
		name := color.New(color.FgWhite, color.Bold).Sprint(source.Name)
		path := color.New(color.FgBlue).Sprint(source.Path)

		if domain.IsAccountContract(source.Name) {
			indicator := color.New(color.FgYellow).Sprint("[account]")
			options[i] = fmt.Sprintf("%s %s (%s)", name, indicator, path)
		} else {
			options[i] = fmt.Sprintf("%s (%s)", name, path)
		}
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.ContractSelector = (*SelectorAdapter)(nil)
