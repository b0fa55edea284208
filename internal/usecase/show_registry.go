package usecase

import (
	"context"
	"errors"
	"io/fs"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
)

// RegistryEntry is one contract as recorded in the registries
type RegistryEntry struct {
	Name       string                   `json:"name" yaml:"name"`
	ClassHash  string                   `json:"classHash,omitempty" yaml:"classHash,omitempty"`
	Deployment *models.DeploymentRecord `json:"deployment,omitempty" yaml:"deployment,omitempty"`
}

// RegistryView is the combined content of both registries
type RegistryView struct {
	Entries []RegistryEntry `json:"entries" yaml:"entries"`
}

// Declared counts entries with a recorded class hash
func (v *RegistryView) Declared() int {
	return lo.CountBy(v.Entries, func(e RegistryEntry) bool { return e.ClassHash != "" })
}

// Deployed counts entries with a deployment record
func (v *RegistryView) Deployed() int {
	return lo.CountBy(v.Entries, func(e RegistryEntry) bool { return e.Deployment != nil })
}

// ShowRegistry is the use case for listing recorded declarations and deployments
type ShowRegistry struct {
	declarations DeclarationStore
	deployments  DeploymentStore
	sink         ProgressSink
}

// NewShowRegistry creates a new ShowRegistry use case
func NewShowRegistry(declarations DeclarationStore, deployments DeploymentStore, sink ProgressSink) *ShowRegistry {
	return &ShowRegistry{
		declarations: declarations,
		deployments:  deployments,
		sink:         sink,
	}
}

// Run loads both registries. A registry that does not exist yet is shown as
// empty; a malformed one is an error.
func (uc *ShowRegistry) Run(ctx context.Context) (*RegistryView, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading registries",
		Spinner: true,
	})

	declarations, err := uc.declarations.Load(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	deployments, err := uc.deployments.Load(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	names := lo.Uniq(append(lo.Keys(declarations), lo.Keys(deployments)...))
	sort.Strings(names)

	view := &RegistryView{Entries: make([]RegistryEntry, 0, len(names))}
	for _, name := range names {
		entry := RegistryEntry{Name: name, ClassHash: declarations[name]}
		if record, ok := deployments[name]; ok {
			entry.Deployment = &record
		}
		view.Entries = append(view.Entries, entry)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   string(StageCompleted),
		Message: "Registries loaded",
	})
	return view, nil
}
