package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/compiler"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/starkdeploy/internal/adapters/starknet"
	"github.com/trebuchet-org/starkdeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewContractIndexer,
	wire.Bind(new(usecase.ContractIndex), new(*fs.ContractIndexer)),

	fs.NewDeclarationStore,
	wire.Bind(new(usecase.DeclarationStore), new(*fs.DeclarationStore)),

	fs.NewDeploymentStore,
	wire.Bind(new(usecase.DeploymentStore), new(*fs.DeploymentStore)),
)

// CompilerSet provides the external compiler wrapper
var CompilerSet = wire.NewSet(
	compiler.NewCairoCompiler,
	wire.Bind(new(usecase.ArtifactCompiler), new(*compiler.CairoCompiler)),
)

// StarknetSet provides the ledger client, the poller and local hashing
var StarknetSet = wire.NewSet(
	starknet.NewClassHasher,
	wire.Bind(new(usecase.ClassHasher), new(*starknet.ClassHasher)),

	starknet.NewRPCClient,
	starknet.NewLedgerClient,
	wire.Bind(new(usecase.LedgerClient), new(*starknet.LedgerClient)),
	wire.Bind(new(starknet.ReceiptSource), new(*starknet.LedgerClient)),

	starknet.NewFinalityPoller,
	wire.Bind(new(usecase.FinalityPoller), new(*starknet.FinalityPoller)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	CompilerSet,
	StarknetSet,
	InteractiveSet,
)
