package fs

import (
	"path/filepath"

	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/domain/models"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// DeploymentsFile is the deployment registry file name
const DeploymentsFile = "deployments.json"

// DeploymentStore persists contract name to deployment record mappings
type DeploymentStore struct {
	*jsonDocument[models.Deployments, models.DeploymentRecord]
}

// NewDeploymentStore creates a store for <deployments>/deployments.json
func NewDeploymentStore(cfg *config.RuntimeConfig) *DeploymentStore {
	return &DeploymentStore{
		jsonDocument: newJSONDocument[models.Deployments](filepath.Join(cfg.DeploymentsDir, DeploymentsFile)),
	}
}

// Path returns the registry file location
func (s *DeploymentStore) Path() string {
	return s.path
}

var _ usecase.DeploymentStore = (*DeploymentStore)(nil)
