package config

import (
	"time"

	"github.com/trebuchet-org/fundme/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string

	// Context settings
	Network *domain.Network // nil if not specified

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Credentials, read with empty-string fallback
	EtherscanAPIKey     string
	CoinMarketCapAPIKey string

	// Resolved configurations
	Project *ProjectConfig
}

// IsDevelopmentChain reports whether the active network is ephemeral
func (c *RuntimeConfig) IsDevelopmentChain() bool {
	if c.Network == nil || c.Project == nil {
		return false
	}
	return c.Project.DevelopmentChains.Contains(c.Network.Name)
}
