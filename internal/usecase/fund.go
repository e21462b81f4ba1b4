package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// FundContract sends ETH to the deployed FundMe
type FundContract struct {
	cfg      *config.RuntimeConfig
	session  ChainSession
	loader   *fundMeLoader
	progress ProgressSink
	log      *slog.Logger
}

// NewFundContract creates a new FundContract use case
func NewFundContract(
	cfg *config.RuntimeConfig,
	session ChainSession,
	deployments DeploymentRepository,
	binder FundMeBinder,
	fixture *RunDeploy,
	progress ProgressSink,
	log *slog.Logger,
) *FundContract {
	return &FundContract{
		cfg:     cfg,
		session: session,
		loader: &fundMeLoader{
			session:     session,
			deployments: deployments,
			binder:      binder,
			fixture:     fixture,
		},
		progress: progress,
		log:      log.With("component", "FundContract"),
	}
}

// FundParams contains parameters for funding
type FundParams struct {
	Amount *big.Int
	// Account is an index into the network's accounts; nil means the deployer
	Account *int
}

// FundResult contains the result of a funding transaction
type FundResult struct {
	Contract     common.Address
	Funder       common.Address
	Amount       *big.Int
	Tx           *domain.TxResult
	AmountFunded *big.Int
	Balance      *big.Int
}

// Execute calls fund() with the given value
func (uc *FundContract) Execute(ctx context.Context, params FundParams) (*FundResult, error) {
	fundMe, err := uc.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	index := uc.cfg.Project.NamedAccounts.Deployer
	if params.Account != nil {
		index = *params.Account
	}
	funder, err := accountAt(ctx, uc.session, index)
	if err != nil {
		return nil, err
	}

	amount := params.Amount
	if amount == nil {
		amount = new(big.Int)
	}

	uc.progress.Info("Funding Contract...")
	tx, err := fundMe.Fund(ctx, funder, amount)
	if err != nil {
		return nil, fmt.Errorf("fund: %w", err)
	}
	uc.progress.Info("Funded!")
	uc.log.Info("funded", "contract", fundMe.Address(), "funder", funder, "amount", amount, "tx", tx.Hash)

	funded, err := fundMe.AmountFunded(ctx, funder)
	if err != nil {
		return nil, fmt.Errorf("failed to read amount funded: %w", err)
	}
	balance, err := uc.session.BalanceAt(ctx, fundMe.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to read contract balance: %w", err)
	}

	return &FundResult{
		Contract:     fundMe.Address(),
		Funder:       funder,
		Amount:       amount,
		Tx:           tx,
		AmountFunded: funded,
		Balance:      balance,
	}, nil
}
