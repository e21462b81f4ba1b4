package blockchain

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
)

// Backend is the chain access needed to deploy and call contracts.
// Both *ethclient.Client and the in-process simulated client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.BlockNumberReader
	ethereum.ChainIDReader
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// miner is implemented by backends that produce blocks on demand
type miner interface {
	Commit() common.Hash
}

var (
	// SimulatedChainID is fixed by the simulated backend's dev chain config
	SimulatedChainID = params.AllDevChainProtocolChanges.ChainID

	// prefundWei is credited to every dev account at genesis
	prefundWei = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))
)

// simBackend wraps the simulated client and mines a block for every transaction,
// the way an automining development node does.
type simBackend struct {
	simulated.Client

	mu  sync.Mutex
	sim *simulated.Backend
}

// newSimBackend starts an in-process chain with the given accounts prefunded
func newSimBackend(accounts []common.Address) *simBackend {
	genesis := make(types.GenesisAlloc, len(accounts))
	for _, account := range accounts {
		genesis[account] = types.Account{Balance: new(big.Int).Set(prefundWei)}
	}

	sim := simulated.NewBackend(genesis, simulated.WithBlockGasLimit(30_000_000))
	sim.Commit() // Commit the genesis block

	return &simBackend{
		Client: sim.Client(),
		sim:    sim,
	}
}

// SendTransaction submits the transaction and mines it immediately
func (b *simBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	b.sim.Commit()
	return nil
}

func (b *simBackend) Commit() common.Hash {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sim.Commit()
}

func (b *simBackend) Close() error {
	return b.sim.Close()
}
