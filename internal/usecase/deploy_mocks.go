package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// DeployMocks deploys the price feed mock on development chains
type DeployMocks struct {
	cfg      *config.RuntimeConfig
	session  ChainSession
	deployer ContractDeployer
	progress ProgressSink
	log      *slog.Logger
}

// NewDeployMocks creates a new DeployMocks use case
func NewDeployMocks(
	cfg *config.RuntimeConfig,
	session ChainSession,
	deployer ContractDeployer,
	progress ProgressSink,
	log *slog.Logger,
) *DeployMocks {
	return &DeployMocks{
		cfg:      cfg,
		session:  session,
		deployer: deployer,
		progress: progress,
		log:      log.With("component", "DeployMocks"),
	}
}

// Run deploys (or reuses) MockV3Aggregator. It is a no-op outside development chains.
func (uc *DeployMocks) Run(ctx context.Context) (*domain.DeploymentRecord, error) {
	network := uc.session.Network()
	if !uc.cfg.Project.DevelopmentChains.Contains(network.Name) {
		uc.log.Debug("not a development chain, skipping mocks", "network", network.Name)
		return nil, nil
	}

	uc.progress.Info("Local network detected! Deploying mocks...")

	deployer, err := accountAt(ctx, uc.session, uc.cfg.Project.NamedAccounts.Deployer)
	if err != nil {
		return nil, err
	}

	mocks := uc.cfg.Project.Mocks
	record, err := uc.deployer.Deploy(ctx, DeployRequest{
		Contract:          domain.ContractMockV3Aggregator,
		From:              deployer,
		Args:              []any{mocks.Decimals, uc.cfg.Project.MockInitialAnswer()},
		WaitConfirmations: network.Confirmations(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", domain.ContractMockV3Aggregator, err)
	}
	logDeployment(uc.progress, record)

	uc.progress.Info("Mocks deployed!")
	uc.progress.Info(separator)
	return record, nil
}

// logDeployment mirrors the per-deploy line printed by the deploy scripts
func logDeployment(progress ProgressSink, record *domain.DeploymentRecord) {
	if record.NewlyDeployed {
		progress.Info(fmt.Sprintf("deploying %q (tx: %s)...: deployed at %s with %d gas",
			record.Contract, record.TransactionHash.Hex(), record.Address.Hex(), record.Receipt.GasUsed))
		return
	}
	progress.Info(fmt.Sprintf("reusing %q at %s", record.Contract, record.Address.Hex()))
}
