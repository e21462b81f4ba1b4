package fundme

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Contract is a FundMe client bound to one deployment
type Contract struct {
	address common.Address
	name    string
	abi     abi.ABI
	bound   *bind.BoundContract
	backend blockchain.Backend
	session *blockchain.Session
	gas     usecase.GasRecorder
	log     *slog.Logger
}

func (c *Contract) Address() common.Address {
	return c.address
}

// Fund sends value to fund()
func (c *Contract) Fund(ctx context.Context, from common.Address, value *big.Int) (*domain.TxResult, error) {
	return c.transact(ctx, from, value, "fund")
}

// Withdraw calls withdraw() as from
func (c *Contract) Withdraw(ctx context.Context, from common.Address) (*domain.TxResult, error) {
	return c.transact(ctx, from, nil, "withdraw")
}

// CheaperWithdraw calls cheaperWithdraw() as from
func (c *Contract) CheaperWithdraw(ctx context.Context, from common.Address) (*domain.TxResult, error) {
	return c.transact(ctx, from, nil, "cheaperWithdraw")
}

func (c *Contract) Owner(ctx context.Context) (common.Address, error) {
	var out common.Address
	return out, c.call(ctx, &out, "getOwner")
}

func (c *Contract) PriceFeed(ctx context.Context) (common.Address, error) {
	var out common.Address
	return out, c.call(ctx, &out, "getPriceFeed")
}

func (c *Contract) Version(ctx context.Context) (*big.Int, error) {
	out := new(big.Int)
	return out, c.call(ctx, &out, "getVersion")
}

func (c *Contract) Funder(ctx context.Context, index int64) (common.Address, error) {
	var out common.Address
	return out, c.call(ctx, &out, "getFunder", big.NewInt(index))
}

func (c *Contract) AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error) {
	out := new(big.Int)
	return out, c.call(ctx, &out, "getAddressToAmountFunded", funder)
}

func (c *Contract) call(ctx context.Context, out any, method string, args ...any) error {
	results := []any{out}
	if err := c.bound.Call(&bind.CallOpts{Context: ctx}, &results, method, args...); err != nil {
		return fmt.Errorf("%s.%s: %w", c.name, method, blockchain.DecodeRevert(err, &c.abi))
	}
	return nil
}

// transact sends a transaction and waits for it to be mined successfully
func (c *Contract) transact(ctx context.Context, from common.Address, value *big.Int, method string) (*domain.TxResult, error) {
	opts, err := c.session.Transactor(ctx, from)
	if err != nil {
		return nil, err
	}
	opts.Value = value

	tx, err := c.bound.Transact(opts, method)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, blockchain.DecodeRevert(err, &c.abi))
	}
	c.log.Debug("transaction sent", "method", method, "tx", tx.Hash(), "from", from)

	receipt, err := blockchain.WaitConfirmed(ctx, c.backend, tx, 1, from, &c.abi)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", c.name, method, err)
	}

	c.gas.Record(c.name, method, receipt.GasUsed, receipt.EffectiveGasPrice)

	return &domain.TxResult{
		Hash:              tx.Hash(),
		BlockNumber:       receipt.BlockNumber.Uint64(),
		GasUsed:           receipt.GasUsed,
		EffectiveGasPrice: receipt.EffectiveGasPrice,
	}, nil
}

var _ usecase.FundMeContract = (*Contract)(nil)
