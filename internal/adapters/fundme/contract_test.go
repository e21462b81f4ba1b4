package fundme

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// echoBytecode stores its constructor arg in slot 0 and answers every call with it,
// accepting any value. It stands in for FundMe's getters and payable entry points.
const echoBytecode = "0x60203860209003600039600051600055600b601c600039600b6000f360005460005260206000f3"

const fundMeABI = `[
	{"type":"constructor","inputs":[{"name":"priceFeed","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"fund","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"withdraw","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"cheaperWithdraw","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"getOwner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getPriceFeed","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getVersion","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"getFunder","inputs":[{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"},
	{"type":"function","name":"getAddressToAmountFunded","inputs":[{"name":"funder","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}
]`

var (
	owner  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	funder = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type gasLog struct {
	methods []string
}

func (g *gasLog) Record(_, method string, _ uint64, _ *big.Int) {
	g.methods = append(g.methods, method)
}

type noArtifacts struct{}

func (noArtifacts) GetArtifact(context.Context, string) (*domain.Artifact, error) {
	return nil, domain.ErrArtifactNotFound
}

func setup(t *testing.T) (*Binder, *blockchain.Session, *domain.DeploymentRecord, *gasLog) {
	t.Helper()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	session, err := blockchain.NewSession(&config.RuntimeConfig{
		Network: &domain.Network{Name: "hardhat", ChainID: 1337, InProcess: true},
		Project: &config.ProjectConfig{DevelopmentChains: domain.DevelopmentChains{"hardhat"}},
	}, log)
	require.NoError(t, err)
	t.Cleanup(session.Close)

	parsed, err := abi.JSON(strings.NewReader(fundMeABI))
	require.NoError(t, err)
	backend, err := session.Backend(ctx)
	require.NoError(t, err)
	opts, err := session.Transactor(ctx, owner)
	require.NoError(t, err)

	address, tx, _, err := bind.DeployContract(opts, parsed, common.FromHex(echoBytecode), backend, owner)
	require.NoError(t, err)
	_, err = bind.WaitMined(ctx, backend, tx)
	require.NoError(t, err)

	record := &domain.DeploymentRecord{
		Contract: domain.ContractFundMe,
		Address:  address,
		ABI:      json.RawMessage(fundMeABI),
		Network:  "hardhat",
	}
	gas := &gasLog{}
	return NewBinder(session, noArtifacts{}, gas, log), session, record, gas
}

func TestContract_Getters(t *testing.T) {
	ctx := context.Background()
	binder, _, record, _ := setup(t)

	contract, err := binder.Bind(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, record.Address, contract.Address())

	got, err := contract.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	feed, err := contract.PriceFeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, owner, feed)

	first, err := contract.Funder(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, owner, first)

	amount, err := contract.AmountFunded(ctx, funder)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).SetBytes(owner.Bytes()), amount)

	version, err := contract.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).SetBytes(owner.Bytes()), version)
}

func TestContract_Transactions(t *testing.T) {
	ctx := context.Background()
	binder, session, record, gas := setup(t)

	contract, err := binder.Bind(ctx, record)
	require.NoError(t, err)

	value := big.NewInt(params.Ether)
	result, err := contract.Fund(ctx, funder, value)
	require.NoError(t, err)
	assert.NotZero(t, result.GasUsed)
	assert.Equal(t, 1, result.GasCost().Sign())

	balance, err := session.BalanceAt(ctx, record.Address)
	require.NoError(t, err)
	assert.Equal(t, value, balance)

	_, err = contract.Withdraw(ctx, owner)
	require.NoError(t, err)
	_, err = contract.CheaperWithdraw(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, []string{"fund", "withdraw", "cheaperWithdraw"}, gas.methods)

	_, err = contract.Fund(ctx, common.HexToAddress("0xbad"), value)
	assert.ErrorIs(t, err, domain.ErrNoAccounts)
}

func TestBinder_Errors(t *testing.T) {
	ctx := context.Background()
	binder, _, record, _ := setup(t)

	t.Run("no code", func(t *testing.T) {
		empty := *record
		empty.Address = common.HexToAddress("0x00000000000000000000000000000000000000aa")
		_, err := binder.Bind(ctx, &empty)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no abi and no artifact", func(t *testing.T) {
		bare := *record
		bare.ABI = nil
		_, err := binder.Bind(ctx, &bare)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("invalid abi", func(t *testing.T) {
		broken := *record
		broken.ABI = json.RawMessage(`{`)
		_, err := binder.Bind(ctx, &broken)
		assert.Error(t, err)
	})
}
