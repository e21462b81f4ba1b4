package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// DeployFundMe resolves the price feed for the active chain, deploys FundMe and
// verifies it on public networks.
type DeployFundMe struct {
	cfg         *config.RuntimeConfig
	session     ChainSession
	deployer    ContractDeployer
	deployments DeploymentRepository
	verifier    *VerifyContract
	progress    ProgressSink
	log         *slog.Logger
}

// NewDeployFundMe creates a new DeployFundMe use case
func NewDeployFundMe(
	cfg *config.RuntimeConfig,
	session ChainSession,
	deployer ContractDeployer,
	deployments DeploymentRepository,
	verifier *VerifyContract,
	progress ProgressSink,
	log *slog.Logger,
) *DeployFundMe {
	return &DeployFundMe{
		cfg:         cfg,
		session:     session,
		deployer:    deployer,
		deployments: deployments,
		verifier:    verifier,
		progress:    progress,
		log:         log.With("component", "DeployFundMe"),
	}
}

// DeployFundMeResult contains the result of a FundMe deployment
type DeployFundMeResult struct {
	Record       *domain.DeploymentRecord
	PriceFeed    common.Address
	Verification VerificationOutcome
}

// ResolvePriceFeed returns the ETH/USD feed FundMe is constructed with.
// Development chains use the mock deployed earlier in the run; other chains read the chain table.
func (uc *DeployFundMe) ResolvePriceFeed(ctx context.Context) (common.Address, error) {
	network := uc.session.Network()

	if uc.cfg.Project.DevelopmentChains.Contains(network.Name) {
		mock, err := uc.deployments.Get(ctx, network.Name, domain.ContractMockV3Aggregator)
		if errors.Is(err, domain.ErrNotFound) {
			return common.Address{}, fmt.Errorf("network %s: %w (run the mocks script first)", network.Name, domain.ErrMockNotDeployed)
		}
		if err != nil {
			return common.Address{}, fmt.Errorf("failed to load %s: %w", domain.ContractMockV3Aggregator, err)
		}
		return mock.Address, nil
	}

	return uc.cfg.Project.Chains.PriceFeed(network.Name, network.ChainID)
}

// Run deploys FundMe exactly once
func (uc *DeployFundMe) Run(ctx context.Context) (*DeployFundMeResult, error) {
	network := uc.session.Network()

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageResolving, Message: "Resolving price feed", Spinner: true})
	priceFeed, err := uc.ResolvePriceFeed(ctx)
	if err != nil {
		return nil, err
	}
	uc.log.Debug("resolved price feed", "network", network.Name, "chainId", network.ChainID, "priceFeed", priceFeed)

	deployer, err := accountAt(ctx, uc.session, uc.cfg.Project.NamedAccounts.Deployer)
	if err != nil {
		return nil, err
	}

	uc.progress.Info(separator)
	uc.progress.Info("Deploying FundMe and waiting for confirmations...")

	args := []any{priceFeed}
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageDeploying, Message: "Deploying FundMe", Spinner: true})
	record, err := uc.deployer.Deploy(ctx, DeployRequest{
		Contract:          domain.ContractFundMe,
		From:              deployer,
		Args:              args,
		WaitConfirmations: network.Confirmations(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", domain.ContractFundMe, err)
	}
	logDeployment(uc.progress, record)
	uc.progress.Info(fmt.Sprintf("FundMe deployed at %s", record.Address.Hex()))

	result := &DeployFundMeResult{
		Record:       record,
		PriceFeed:    priceFeed,
		Verification: VerificationSkipped,
	}

	if !uc.cfg.Project.DevelopmentChains.Contains(network.Name) && uc.cfg.EtherscanAPIKey != "" {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: "Verifying FundMe", Spinner: true})
		result.Verification = uc.verifier.Verify(ctx, network, domain.ContractFundMe, record.Address, args)
	}

	uc.progress.Info(separator)
	return result, nil
}
