package config

import (
	"math/big"
	"path/filepath"

	"github.com/trebuchet-org/fundme/internal/domain"
)

// ProjectConfig is the resolved content of fundme.toml merged with built-in defaults
type ProjectConfig struct {
	DefaultNetwork    string
	DevelopmentChains domain.DevelopmentChains
	Networks          map[string]*domain.Network
	Chains            domain.ChainTable
	Mocks             domain.MockConfig
	Etherscan         EtherscanConfig
	GasReporter       GasReporterConfig
	Paths             PathsConfig
	NamedAccounts     NamedAccounts
}

// EtherscanConfig holds the block explorer credentials
type EtherscanConfig struct {
	APIKey string
	URL    string
}

// GasReporterConfig controls the gas usage report
type GasReporterConfig struct {
	Enabled       bool
	OutputFile    string
	NoColors      bool
	Currency      string
	CoinMarketCap string
	Token         string
}

// PathsConfig holds project-relative directories
type PathsConfig struct {
	Artifacts   string
	Deployments string
}

// NamedAccounts maps account roles to indices in the network's account list
type NamedAccounts struct {
	Deployer int
}

// ArtifactsDir returns the absolute artifacts directory
func (c *ProjectConfig) ArtifactsDir(projectRoot string) string {
	return resolvePath(projectRoot, c.Paths.Artifacts)
}

// DeploymentsDir returns the absolute deployments directory
func (c *ProjectConfig) DeploymentsDir(projectRoot string) string {
	return resolvePath(projectRoot, c.Paths.Deployments)
}

// GasReportFile returns the absolute gas report path
func (c *ProjectConfig) GasReportFile(projectRoot string) string {
	return resolvePath(projectRoot, c.GasReporter.OutputFile)
}

// MockInitialAnswer returns a copy of the configured initial answer
func (c *ProjectConfig) MockInitialAnswer() *big.Int {
	if c.Mocks.InitialAnswer == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(c.Mocks.InitialAnswer)
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
