package usecase

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
)

type fundHarness struct {
	*deployHarness
	binder   *fakeBinder
	fund     *FundContract
	withdraw *WithdrawFunds
}

func newFundHarness(t *testing.T, network string) *fundHarness {
	t.Helper()
	h := newDeployHarness(testConfig(network))
	binder := &fakeBinder{session: h.session, contracts: make(map[common.Address]*fakeFundMe)}
	return &fundHarness{
		deployHarness: h,
		binder:        binder,
		fund:          NewFundContract(h.cfg, h.session, h.repo, binder, h.runner, h.sink, discardLogger),
		withdraw:      NewWithdrawFunds(h.cfg, h.session, h.repo, binder, h.runner, h.sink, discardLogger),
	}
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func TestFundContract_InProcessDeploysFixture(t *testing.T) {
	h := newFundHarness(t, "hardhat")

	result, err := h.fund.Execute(context.Background(), FundParams{Amount: ether(1)})
	require.NoError(t, err)

	assert.Equal(t, []string{"MockV3Aggregator", "FundMe"}, h.deployer.contracts())
	assert.Equal(t, testAccounts[0], result.Funder)
	assert.Equal(t, ether(1), result.AmountFunded)
	assert.Equal(t, ether(1), result.Balance)
	assert.Contains(t, h.sink.infos, "Funded!")
}

func TestFundContract_NotDeployed(t *testing.T) {
	h := newFundHarness(t, "localhost")

	_, err := h.fund.Execute(context.Background(), FundParams{Amount: ether(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "fundme deploy --network localhost")
	assert.Empty(t, h.deployer.requests, "only in-process networks deploy on demand")
}

func TestFundContract_BelowMinimumReverts(t *testing.T) {
	h := newFundHarness(t, "hardhat")

	_, err := h.fund.Execute(context.Background(), FundParams{})
	require.Error(t, err)

	var revert *domain.RevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "You need to spend more ETH!", revert.Reason)
}

func TestWithdrawFunds(t *testing.T) {
	for _, cheaper := range []bool{false, true} {
		name := "withdraw"
		if cheaper {
			name = "cheaperWithdraw"
		}
		t.Run(name, func(t *testing.T) {
			h := newFundHarness(t, "hardhat")
			ctx := context.Background()

			funder := 1
			_, err := h.fund.Execute(ctx, FundParams{Amount: ether(1), Account: &funder})
			require.NoError(t, err)
			_, err = h.fund.Execute(ctx, FundParams{Amount: ether(2)})
			require.NoError(t, err)

			result, err := h.withdraw.Execute(ctx, WithdrawParams{Cheaper: cheaper})
			require.NoError(t, err)

			assert.Equal(t, name, result.Method)
			assert.Equal(t, ether(3), result.StartingBalance)
			assert.Equal(t, 0, result.EndingBalance.Sign())
			assert.Equal(t, ether(3), result.Withdrawn())

			fundMe := h.binder.contracts[result.Contract]
			require.NotNil(t, fundMe)
			for _, account := range testAccounts {
				funded, err := fundMe.AmountFunded(ctx, account)
				require.NoError(t, err)
				assert.Equal(t, 0, funded.Sign())
			}
			_, err = fundMe.Funder(ctx, 0)
			assert.Error(t, err, "funders array is reset")
		})
	}
}

func TestWithdrawFunds_OnlyOwner(t *testing.T) {
	h := newFundHarness(t, "hardhat")
	ctx := context.Background()

	_, err := h.fund.Execute(ctx, FundParams{Amount: ether(1)})
	require.NoError(t, err)

	attacker := 1
	_, err = h.withdraw.Execute(ctx, WithdrawParams{Account: &attacker})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FundMe__NotOwner")
}

func TestFundContract_AccountOutOfRange(t *testing.T) {
	h := newFundHarness(t, "hardhat")

	index := 7
	_, err := h.fund.Execute(context.Background(), FundParams{Amount: ether(1), Account: &index})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
