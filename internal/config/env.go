package config

import (
	"sort"
	"strings"

	"github.com/trebuchet-org/fundme/internal/domain"
)

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, base-sepolia -> BASE_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// MissingSettings lists the environment variables that keep a network from being usable.
// Development chains sign with the well-known dev accounts and need no key.
func MissingSettings(network *domain.Network, devChains domain.DevelopmentChains) []string {
	if network.InProcess {
		return nil
	}
	var missing []string
	if network.RPCURL == "" {
		missing = append(missing, GenerateEnvVarName(network.Name))
	}
	if len(network.Accounts) == 0 && !devChains.Contains(network.Name) {
		missing = append(missing, "PRIVATE_KEY")
	}
	sort.Strings(missing)
	return missing
}
