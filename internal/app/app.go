package app

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	RunDeploy        *usecase.RunDeploy
	VerifyDeployment *usecase.VerifyDeployment
	FundContract     *usecase.FundContract
	WithdrawFunds    *usecase.WithdrawFunds
	ListNetworks     *usecase.ListNetworks
	ListDeployments  *usecase.ListDeployments
	ShowDeployment   *usecase.ShowDeployment
	ManageNode       *usecase.ManageNode

	// Adapters needed after a command ran
	GasReporter usecase.GasReporter
	session     *blockchain.Session
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	runDeploy *usecase.RunDeploy,
	verifyDeployment *usecase.VerifyDeployment,
	fundContract *usecase.FundContract,
	withdrawFunds *usecase.WithdrawFunds,
	listNetworks *usecase.ListNetworks,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	manageNode *usecase.ManageNode,
	gasReporter usecase.GasReporter,
	session *blockchain.Session,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		RunDeploy:        runDeploy,
		VerifyDeployment: verifyDeployment,
		FundContract:     fundContract,
		WithdrawFunds:    withdrawFunds,
		ListNetworks:     listNetworks,
		ListDeployments:  listDeployments,
		ShowDeployment:   showDeployment,
		ManageNode:       manageNode,
		GasReporter:      gasReporter,
		session:          session,
	}, nil
}

// Close writes the gas report and releases the chain connection.
// It returns where the report went, if one was produced.
func (a *App) Close(ctx context.Context) (string, error) {
	defer a.session.Close()
	return a.GasReporter.WriteReport(ctx)
}
