package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// projectTOML represents the raw fundme.toml structure
type projectTOML struct {
	DefaultNetwork    string                 `toml:"default_network"`
	DevelopmentChains []string               `toml:"development_chains"`
	Networks          map[string]networkTOML `toml:"networks"`
	Chains            map[string]chainTOML   `toml:"chains"`
	Mocks             mocksTOML              `toml:"mocks"`
	Etherscan         etherscanTOML          `toml:"etherscan"`
	GasReporter       gasReporterTOML        `toml:"gas_reporter"`
	Paths             pathsTOML              `toml:"paths"`
	NamedAccounts     map[string]int         `toml:"named_accounts"`
}

type networkTOML struct {
	URL                string   `toml:"url"`
	ChainID            uint64   `toml:"chain_id"`
	BlockConfirmations uint64   `toml:"block_confirmations"`
	Accounts           []string `toml:"accounts"`
	Gas                uint64   `toml:"gas"`
	GasPrice           int64    `toml:"gas_price"`
	VerifyURL          string   `toml:"verify_url"`
	ExplorerURL        string   `toml:"explorer_url"`
}

type chainTOML struct {
	Name               string `toml:"name"`
	EthUsdPriceFeed    string `toml:"eth_usd_price_feed"`
	BlockConfirmations uint64 `toml:"block_confirmations"`
}

type mocksTOML struct {
	Decimals      *uint8 `toml:"decimals"`
	InitialAnswer *int64 `toml:"initial_answer"`
}

type etherscanTOML struct {
	APIKey string `toml:"api_key"`
	URL    string `toml:"url"`
}

type gasReporterTOML struct {
	Enabled       *bool  `toml:"enabled"`
	OutputFile    string `toml:"output_file"`
	NoColors      *bool  `toml:"no_colors"`
	Currency      string `toml:"currency"`
	CoinMarketCap string `toml:"coinmarketcap"`
	Token         string `toml:"token"`
}

type pathsTOML struct {
	Artifacts   string `toml:"artifacts"`
	Deployments string `toml:"deployments"`
}

// LoadEnvFiles loads .env and .env.local from the project root.
// Variables already present in the environment win.
func LoadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadProjectConfig loads fundme.toml from the project root and merges it over the defaults.
// A missing file yields the defaults.
func LoadProjectConfig(projectRoot string) (*config.ProjectConfig, error) {
	LoadEnvFiles(projectRoot)

	var raw projectTOML
	path := filepath.Join(projectRoot, ProjectFile)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to parse %s: %w", ProjectFile, err)
		}
	}

	cfg, err := buildProjectConfig(&raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}

	// Hardhat projects write to artifacts/, Foundry projects to out/
	if raw.Paths.Artifacts == "" {
		if _, err := os.Stat(cfg.ArtifactsDir(projectRoot)); os.IsNotExist(err) {
			if _, err := os.Stat(filepath.Join(projectRoot, "out")); err == nil {
				cfg.Paths.Artifacts = "out"
			}
		}
	}

	return cfg, nil
}

// buildProjectConfig merges a raw file over the defaults and expands ${VAR} references
func buildProjectConfig(raw *projectTOML) (*config.ProjectConfig, error) {
	cfg := &config.ProjectConfig{
		DefaultNetwork:    lo.CoalesceOrEmpty(raw.DefaultNetwork, HardhatNetwork),
		DevelopmentChains: DefaultDevelopmentChains,
		Networks:          make(map[string]*domain.Network),
		Chains:            make(domain.ChainTable),
		Mocks:             defaultMocks(),
		Etherscan: config.EtherscanConfig{
			APIKey: os.ExpandEnv(lo.CoalesceOrEmpty(raw.Etherscan.APIKey, "${ETHERSCAN_API_KEY}")),
			URL:    os.ExpandEnv(lo.CoalesceOrEmpty(raw.Etherscan.URL, DefaultEtherscanURL)),
		},
		GasReporter: config.GasReporterConfig{
			Enabled:       lo.FromPtrOr(raw.GasReporter.Enabled, true),
			OutputFile:    lo.CoalesceOrEmpty(raw.GasReporter.OutputFile, "gas-report.txt"),
			NoColors:      lo.FromPtrOr(raw.GasReporter.NoColors, true),
			Currency:      strings.ToUpper(lo.CoalesceOrEmpty(raw.GasReporter.Currency, "USD")),
			CoinMarketCap: os.ExpandEnv(lo.CoalesceOrEmpty(raw.GasReporter.CoinMarketCap, "${COINMARKETCAP_API_KEY}")),
			Token:         strings.ToUpper(lo.CoalesceOrEmpty(raw.GasReporter.Token, "ETH")),
		},
		Paths: config.PathsConfig{
			Artifacts:   lo.CoalesceOrEmpty(raw.Paths.Artifacts, "artifacts"),
			Deployments: lo.CoalesceOrEmpty(raw.Paths.Deployments, "deployments"),
		},
		NamedAccounts: config.NamedAccounts{
			Deployer: raw.NamedAccounts["deployer"],
		},
	}

	if len(raw.DevelopmentChains) > 0 {
		cfg.DevelopmentChains = domain.DevelopmentChains(lo.Uniq(raw.DevelopmentChains))
	}

	if raw.Mocks.Decimals != nil {
		cfg.Mocks.Decimals = *raw.Mocks.Decimals
	}
	if raw.Mocks.InitialAnswer != nil {
		cfg.Mocks.InitialAnswer = big.NewInt(*raw.Mocks.InitialAnswer)
	}

	// Chains: defaults first, file entries override field by field
	chains := make(map[uint64]chainTOML, len(defaultChains))
	for id, c := range defaultChains {
		chains[id] = c
	}
	for key, c := range raw.Chains {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chains: key %q is not a chain id", key)
		}
		chains[id] = mergeChain(chains[id], c)
	}
	for id, c := range chains {
		feed := os.ExpandEnv(c.EthUsdPriceFeed)
		if feed != "" && !common.IsHexAddress(feed) {
			return nil, fmt.Errorf("chains.%d: invalid eth_usd_price_feed %q", id, feed)
		}
		cfg.Chains[id] = domain.ChainConfig{
			Name:               c.Name,
			EthUsdPriceFeed:    addressPtr(feed),
			BlockConfirmations: c.BlockConfirmations,
		}
	}

	// Networks: same merge
	networks := make(map[string]networkTOML, len(defaultNetworks))
	for name, n := range defaultNetworks {
		networks[name] = n
	}
	for name, n := range raw.Networks {
		networks[name] = mergeNetwork(networks[name], n)
	}
	for name, n := range networks {
		network := &domain.Network{
			Name:               name,
			ChainID:            n.ChainID,
			RPCURL:             os.ExpandEnv(n.URL),
			BlockConfirmations: n.BlockConfirmations,
			Accounts:           expandAccounts(n.Accounts),
			GasLimit:           n.Gas,
			VerifyURL:          os.ExpandEnv(lo.CoalesceOrEmpty(n.VerifyURL, cfg.Etherscan.URL)),
			ExplorerURL:        os.ExpandEnv(lo.CoalesceOrEmpty(n.ExplorerURL, explorerURL(n.ChainID))),
			InProcess:          name == HardhatNetwork,
		}
		if n.GasPrice > 0 {
			network.GasPrice = big.NewInt(n.GasPrice)
		}
		// Fall back to the chain table for confirmations
		if network.BlockConfirmations == 0 {
			if chain, ok := cfg.Chains[network.ChainID]; ok {
				network.BlockConfirmations = chain.BlockConfirmations
			}
		}
		cfg.Networks[name] = network
	}

	return cfg, nil
}

func mergeNetwork(base, override networkTOML) networkTOML {
	return networkTOML{
		URL:                lo.CoalesceOrEmpty(override.URL, base.URL),
		ChainID:            lo.CoalesceOrEmpty(override.ChainID, base.ChainID),
		BlockConfirmations: lo.CoalesceOrEmpty(override.BlockConfirmations, base.BlockConfirmations),
		Accounts:           lo.CoalesceSliceOrEmpty(override.Accounts, base.Accounts),
		Gas:                lo.CoalesceOrEmpty(override.Gas, base.Gas),
		GasPrice:           lo.CoalesceOrEmpty(override.GasPrice, base.GasPrice),
		VerifyURL:          lo.CoalesceOrEmpty(override.VerifyURL, base.VerifyURL),
		ExplorerURL:        lo.CoalesceOrEmpty(override.ExplorerURL, base.ExplorerURL),
	}
}

func mergeChain(base, override chainTOML) chainTOML {
	return chainTOML{
		Name:               lo.CoalesceOrEmpty(override.Name, base.Name),
		EthUsdPriceFeed:    lo.CoalesceOrEmpty(override.EthUsdPriceFeed, base.EthUsdPriceFeed),
		BlockConfirmations: lo.CoalesceOrEmpty(override.BlockConfirmations, base.BlockConfirmations),
	}
}

// expandAccounts expands ${VAR} references and drops keys that resolve to nothing
func expandAccounts(accounts []string) []string {
	return lo.FilterMap(accounts, func(a string, _ int) (string, bool) {
		key := strings.TrimSpace(os.ExpandEnv(a))
		return key, key != ""
	})
}
