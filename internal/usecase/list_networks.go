package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name          string
	ChainID       uint64
	Active        bool
	Development   bool
	InProcess     bool
	Confirmations uint64
	PriceFeed     *common.Address
	Error         error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg      *config.RuntimeConfig
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		cfg:      cfg,
		resolver: resolver,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.Names()

	// Check each network's status
	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{
			Name:        name,
			Development: uc.cfg.Project.DevelopmentChains.Contains(name),
			Active:      uc.cfg.Network != nil && uc.cfg.Network.Name == name,
		}

		info, err := uc.resolver.Resolve(ctx, name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
			status.InProcess = info.InProcess
			status.Confirmations = info.Confirmations()
			if chain, ok := uc.cfg.Project.Chains[info.ChainID]; ok && !status.Development {
				status.PriceFeed = chain.EthUsdPriceFeed
			}
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
	}, nil
}
