package config

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

const (
	// ProjectFile is the name of the project configuration file
	ProjectFile = "fundme.toml"

	// HardhatNetwork is the ephemeral in-process chain
	HardhatNetwork = "hardhat"
	// LocalhostNetwork is a node started with `fundme node start`
	LocalhostNetwork = "localhost"

	// HardhatChainID is the chain ID of the in-process chain
	HardhatChainID uint64 = 1337
	// LocalhostChainID is anvil's default chain ID
	LocalhostChainID uint64 = 31337

	// DefaultEtherscanURL is the multichain Etherscan API endpoint
	DefaultEtherscanURL = "https://api.etherscan.io/v2/api"

	defaultDecimals      uint8 = 8
	defaultInitialAnswer int64 = 200000000000
)

// DefaultDevelopmentChains are the networks on which mocks are deployed
var DefaultDevelopmentChains = domain.DevelopmentChains{HardhatNetwork, LocalhostNetwork}

// Default networks; values of the form ${VAR} are expanded after .env files are loaded
var defaultNetworks = map[string]networkTOML{
	HardhatNetwork: {
		ChainID: HardhatChainID,
	},
	LocalhostNetwork: {
		URL:     "http://127.0.0.1:8545",
		ChainID: LocalhostChainID,
	},
	"rinkeby": {
		URL:                "${RINKEBY_RPC_URL}",
		ChainID:            4,
		BlockConfirmations: 6,
		Accounts:           []string{"${PRIVATE_KEY}"},
		Gas:                5000000,
		GasPrice:           8000000000,
	},
	"sepolia": {
		URL:                "${SEPOLIA_RPC_URL}",
		ChainID:            11155111,
		BlockConfirmations: 6,
		Accounts:           []string{"${PRIVATE_KEY}"},
	},
}

// Default ETH/USD price feeds
var defaultChains = map[uint64]chainTOML{
	4: {
		Name:            "rinkeby",
		EthUsdPriceFeed: "0x8A753747A1Fa494EC906cE90E9f37563A8AF630e",
	},
	137: {
		Name:            "polygon",
		EthUsdPriceFeed: "0xF9680D99D6C9589e2a93a78A04A279e509205945",
	},
	11155111: {
		Name:            "sepolia",
		EthUsdPriceFeed: "0x694AA1769357215DE4FAC081bf1f309aDC325306",
	},
}

// DefaultProjectConfig returns the configuration used when fundme.toml is absent
func DefaultProjectConfig() *config.ProjectConfig {
	cfg, err := buildProjectConfig(&projectTOML{})
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}
	return cfg
}

// explorerURL returns the browser URL of well-known explorers
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 4:
		return "https://rinkeby.etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 10:
		return "https://optimistic.etherscan.io"
	case 42161:
		return "https://arbiscan.io"
	case 8453:
		return "https://basescan.org"
	default:
		return ""
	}
}

func addressPtr(s string) *common.Address {
	if s == "" || !common.IsHexAddress(s) {
		return nil
	}
	addr := common.HexToAddress(s)
	return &addr
}

func defaultMocks() domain.MockConfig {
	return domain.MockConfig{
		Decimals:      defaultDecimals,
		InitialAnswer: big.NewInt(defaultInitialAnswer),
	}
}
