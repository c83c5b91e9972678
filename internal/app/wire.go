//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/adapters"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/logging"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveOracle,
		usecase.NewProvisionMocks,
		usecase.NewVerifyDeployment,
		usecase.NewDeployFundMe,
		usecase.NewDeployContracts,
		usecase.NewRunTests,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewManageAnvil,

		// App
		NewApp,
	)
	return nil, nil
}
