//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/starkdeploy/internal/adapters"
	"github.com/trebuchet-org/starkdeploy/internal/config"
	"github.com/trebuchet-org/starkdeploy/internal/logging"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveContract,
		usecase.NewCompileContracts,
		usecase.NewDeclareContract,
		usecase.NewDeclareContracts,
		usecase.NewDeployContract,
		usecase.NewInvokeContract,
		usecase.NewCallContract,
		usecase.NewComputeClassHash,
		usecase.NewShowRegistry,
		usecase.NewCheckDeployments,
		usecase.NewWaitTransaction,
		usecase.NewShowAccount,

		// App
		NewApp,
	)
	return nil, nil
}
