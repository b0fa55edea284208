package models

// Declarations maps contract names to the hex class hash they were declared with
type Declarations map[string]string

// DeploymentRecord describes one deployed contract instance
type DeploymentRecord struct {
	Address  string `json:"address" yaml:"address"`   // Contract address
	TxHash   string `json:"tx" yaml:"tx"`             // Deploy transaction hash
	Artifact string `json:"artifact" yaml:"artifact"` // Artifact path used for the deployment
}

// Deployments maps contract names to their deployment record
type Deployments map[string]DeploymentRecord
