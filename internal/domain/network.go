package domain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
)

// DefaultBlockConfirmations is used when a network does not configure a confirmation count
const DefaultBlockConfirmations uint64 = 1

// Network is a resolved deployment target
type Network struct {
	Name               string   `json:"name"`
	ChainID            uint64   `json:"chainId"`
	RPCURL             string   `json:"rpcUrl,omitempty"`
	BlockConfirmations uint64   `json:"blockConfirmations,omitempty"`
	Accounts           []string `json:"-"`
	GasLimit           uint64   `json:"gas,omitempty"`
	GasPrice           *big.Int `json:"gasPrice,omitempty"`
	VerifyURL          string   `json:"verifyUrl,omitempty"`
	ExplorerURL        string   `json:"explorerUrl,omitempty"`

	// InProcess networks run on an ephemeral chain inside the process
	InProcess bool `json:"inProcess,omitempty"`
}

// Confirmations returns the number of blocks to wait for, defaulting to one
func (n *Network) Confirmations() uint64 {
	if n.BlockConfirmations == 0 {
		return DefaultBlockConfirmations
	}
	return n.BlockConfirmations
}

// ChainConfig holds per-chain deployment parameters
type ChainConfig struct {
	Name               string          `json:"name"`
	EthUsdPriceFeed    *common.Address `json:"ethUsdPriceFeed,omitempty"`
	BlockConfirmations uint64          `json:"blockConfirmations,omitempty"`
}

// ChainTable maps chain IDs to their deployment parameters
type ChainTable map[uint64]ChainConfig

// PriceFeed returns the configured ETH/USD price feed for a chain
func (t ChainTable) PriceFeed(network string, chainID uint64) (common.Address, error) {
	entry, ok := t[chainID]
	if !ok {
		return common.Address{}, &ConfigurationError{
			Network: network,
			ChainID: chainID,
			Reason:  "no chain configuration entry and not a development chain",
		}
	}
	if entry.EthUsdPriceFeed == nil {
		return common.Address{}, &ConfigurationError{
			Network: network,
			ChainID: chainID,
			Reason:  fmt.Sprintf("chain %q has no eth_usd_price_feed", entry.Name),
		}
	}
	return *entry.EthUsdPriceFeed, nil
}

// DevelopmentChains is the set of network names treated as local and ephemeral
type DevelopmentChains []string

// Contains reports whether the network is a development chain
func (d DevelopmentChains) Contains(network string) bool {
	return lo.Contains(d, network)
}

// MockConfig holds the constructor parameters of the price feed mock
type MockConfig struct {
	Decimals      uint8
	InitialAnswer *big.Int
}
