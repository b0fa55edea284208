package fs

import (
	"path/filepath"

	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// DeclarationsFile is the class-hash registry file name
const DeclarationsFile = "declarations.json"

// DeclarationStore persists contract name to class hash mappings
type DeclarationStore struct {
	*jsonDocument[models.Declarations, string]
}

// NewDeclarationStore creates a store for <deployments>/declarations.json
func NewDeclarationStore(cfg *config.RuntimeConfig) *DeclarationStore {
	return &DeclarationStore{
		jsonDocument: newJSONDocument[models.Declarations](filepath.Join(cfg.DeploymentsDir, DeclarationsFile)),
	}
}

// Path returns the registry file location
func (s *DeclarationStore) Path() string {
	return s.path
}

var _ usecase.DeclarationStore = (*DeclarationStore)(nil)
