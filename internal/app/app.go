package app

import (
	"log/slog"

	"github.com/trebuchet-org/starkdeploy/internal/domain/config"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	ResolveContract  *usecase.ResolveContract
	CompileContracts *usecase.CompileContracts
	DeclareContract  *usecase.DeclareContract
	DeclareContracts *usecase.DeclareContracts
	DeployContract   *usecase.DeployContract
	InvokeContract   *usecase.InvokeContract
	CallContract     *usecase.CallContract
	ComputeClassHash *usecase.ComputeClassHash
	ShowRegistry     *usecase.ShowRegistry
	CheckDeployments *usecase.CheckDeployments
	WaitTransaction  *usecase.WaitTransaction
	ShowAccount      *usecase.ShowAccount
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	resolveContract *usecase.ResolveContract,
	compileContracts *usecase.CompileContracts,
	declareContract *usecase.DeclareContract,
	declareContracts *usecase.DeclareContracts,
	deployContract *usecase.DeployContract,
	invokeContract *usecase.InvokeContract,
	callContract *usecase.CallContract,
	computeClassHash *usecase.ComputeClassHash,
	showRegistry *usecase.ShowRegistry,
	checkDeployments *usecase.CheckDeployments,
	waitTransaction *usecase.WaitTransaction,
	showAccount *usecase.ShowAccount,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		ResolveContract:  resolveContract,
		CompileContracts: compileContracts,
		DeclareContract:  declareContract,
		DeclareContracts: declareContracts,
		DeployContract:   deployContract,
		InvokeContract:   invokeContract,
		CallContract:     callContract,
		ComputeClassHash: computeClassHash,
		ShowRegistry:     showRegistry,
		CheckDeployments: checkDeployments,
		WaitTransaction:  waitTransaction,
		ShowAccount:      showAccount,
	}, nil
}
