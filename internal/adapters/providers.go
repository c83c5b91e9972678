package adapters

import (
	"github.com/google/wire"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/anvil"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/contracts"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/environment"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/gasreport"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/interactive"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/network"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/progress"
	artifacts "github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/repository/contracts"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/senders"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters/verification"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// RepositorySet provides the registry and artifact implementations
var RepositorySet = wire.NewSet(
	network.NewRegistry,
	wire.Bind(new(usecase.NetworkRegistry), new(*network.Registry)),

	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Repository)),
)

// ChainSet provides the network session and contract bindings
var ChainSet = wire.NewSet(
	senders.NewService,

	environment.NewBuilder,
	wire.Bind(new(usecase.EnvironmentFactory), new(*environment.Builder)),

	contracts.NewBinder,
	wire.Bind(new(usecase.ContractBinder), new(*contracts.Binder)),
)

// ExplorerSet provides source verification
var ExplorerSet = wire.NewSet(
	verification.NewService,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.Service)),
)

// ReportingSet provides progress and gas reporting
var ReportingSet = wire.NewSet(
	progress.NewSpinnerSink,
	wire.Bind(new(usecase.ProgressSink), new(*progress.SpinnerSink)),

	gasreport.NewReporter,
	wire.Bind(new(usecase.GasReporter), new(*gasreport.Reporter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),
)

// NodeSet provides the local anvil node manager
var NodeSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	ChainSet,
	ExplorerSet,
	ReportingSet,
	InteractiveSet,
	NodeSet,
)
