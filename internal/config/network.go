package config

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ChainIDFetcher returns the chain ID reported by an RPC endpoint
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

// NetworkResolver resolves network names to configurations
type NetworkResolver struct {
	project      *config.ProjectConfig
	fetchChainID ChainIDFetcher
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	return &NetworkResolver{
		project:      project,
		fetchChainID: fetchChainID,
	}
}

// Names returns the configured network names in sorted order
func (r *NetworkResolver) Names() []string {
	names := make([]string, 0, len(r.project.Networks))
	for name := range r.project.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration.
// Networks without a configured chain ID are asked over RPC.
func (r *NetworkResolver) Resolve(ctx context.Context, name string) (*domain.Network, error) {
	network, ok := r.project.Networks[name]
	if !ok {
		return nil, &domain.UnknownNetworkError{
			Name:        name,
			Suggestions: r.suggest(name),
		}
	}

	// Copy so callers cannot mutate the loaded configuration
	resolved := *network
	resolved.Accounts = append([]string(nil), network.Accounts...)

	if resolved.InProcess {
		return &resolved, nil
	}

	if resolved.RPCURL == "" {
		return nil, fmt.Errorf("network %s has no RPC URL (is its environment variable set?)", name)
	}

	if resolved.ChainID == 0 {
		chainID, err := r.fetchChainID(ctx, resolved.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
		resolved.ChainID = chainID
		if resolved.ExplorerURL == "" {
			resolved.ExplorerURL = explorerURL(chainID)
		}
	}

	return &resolved, nil
}

// suggest returns configured names close to the given one
func (r *NetworkResolver) suggest(name string) []string {
	matches := fuzzy.Find(name, r.Names())
	suggestions := make([]string, 0, 3)
	for i, m := range matches {
		if i == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

// fetchChainID fetches the chain ID from an RPC endpoint
func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId: %w", err)
	}
	return chainID.Uint64(), nil
}
