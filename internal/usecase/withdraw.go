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

// WithdrawFunds withdraws the FundMe balance to its owner
type WithdrawFunds struct {
	cfg      *config.RuntimeConfig
	session  ChainSession
	loader   *fundMeLoader
	progress ProgressSink
	log      *slog.Logger
}

// NewWithdrawFunds creates a new WithdrawFunds use case
func NewWithdrawFunds(
	cfg *config.RuntimeConfig,
	session ChainSession,
	deployments DeploymentRepository,
	binder FundMeBinder,
	fixture *RunDeploy,
	progress ProgressSink,
	log *slog.Logger,
) *WithdrawFunds {
	return &WithdrawFunds{
		cfg:     cfg,
		session: session,
		loader: &fundMeLoader{
			session:     session,
			deployments: deployments,
			binder:      binder,
			fixture:     fixture,
		},
		progress: progress,
		log:      log.With("component", "WithdrawFunds"),
	}
}

// WithdrawParams contains parameters for withdrawing
type WithdrawParams struct {
	// Cheaper uses cheaperWithdraw(), which reads the funders array from memory
	Cheaper bool
	// Account is an index into the network's accounts; nil means the deployer
	Account *int
}

// WithdrawResult contains the result of a withdrawal
type WithdrawResult struct {
	Contract        common.Address
	Caller          common.Address
	Method          string
	Tx              *domain.TxResult
	StartingBalance *big.Int
	EndingBalance   *big.Int
}

// Withdrawn returns the amount moved out of the contract
func (r *WithdrawResult) Withdrawn() *big.Int {
	return new(big.Int).Sub(r.StartingBalance, r.EndingBalance)
}

// Execute calls withdraw() or cheaperWithdraw() as the deployer
func (uc *WithdrawFunds) Execute(ctx context.Context, params WithdrawParams) (*WithdrawResult, error) {
	fundMe, err := uc.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	index := uc.cfg.Project.NamedAccounts.Deployer
	if params.Account != nil {
		index = *params.Account
	}
	caller, err := accountAt(ctx, uc.session, index)
	if err != nil {
		return nil, err
	}

	starting, err := uc.session.BalanceAt(ctx, fundMe.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to read contract balance: %w", err)
	}

	method := "withdraw"
	withdraw := fundMe.Withdraw
	if params.Cheaper {
		method = "cheaperWithdraw"
		withdraw = fundMe.CheaperWithdraw
	}

	uc.progress.Info("Withdrawing from contract...")
	tx, err := withdraw(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	uc.log.Info("withdrawn", "contract", fundMe.Address(), "method", method, "tx", tx.Hash)

	ending, err := uc.session.BalanceAt(ctx, fundMe.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to read contract balance: %w", err)
	}
	uc.progress.Info(fmt.Sprintf("%s should equal 0", ending.String()))

	return &WithdrawResult{
		Contract:        fundMe.Address(),
		Caller:          caller,
		Method:          method,
		Tx:              tx,
		StartingBalance: starting,
		EndingBalance:   ending,
	}, nil
}
