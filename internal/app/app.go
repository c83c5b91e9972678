package app

import (
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	DeployContracts  *usecase.DeployContracts
	RunTests         *usecase.RunTests
	ListNetworks     *usecase.ListNetworks
	ListDeployments  *usecase.ListDeployments
	VerifyDeployment *usecase.VerifyDeployment
	ManageAnvil      *usecase.ManageAnvil
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	deployContracts *usecase.DeployContracts,
	runTests *usecase.RunTests,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	verifyDeployment *usecase.VerifyDeployment,
	manageAnvil *usecase.ManageAnvil,
) (*App, error) {
	return &App{
		Config:           cfg,
		DeployContracts:  deployContracts,
		RunTests:         runTests,
		ListNetworks:     listNetworks,
		ListDeployments:  listDeployments,
		VerifyDeployment: verifyDeployment,
		ManageAnvil:      manageAnvil,
	}, nil
}
