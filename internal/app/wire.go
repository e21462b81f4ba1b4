//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/fundme/internal/adapters"
	"github.com/trebuchet-org/fundme/internal/config"
	"github.com/trebuchet-org/fundme/internal/logging"
	"github.com/trebuchet-org/fundme/internal/usecase"
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
		usecase.NewVerifyContract,
		usecase.NewDeployMocks,
		usecase.NewDeployFundMe,
		usecase.NewRunDeploy,
		usecase.NewVerifyDeployment,
		usecase.NewFundContract,
		usecase.NewWithdrawFunds,
		usecase.NewListNetworks,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
