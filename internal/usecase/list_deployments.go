package usecase

import (
	"context"
	"sort"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	// AllNetworks lists every network instead of the active one
	AllNetworks bool
	Contract    string
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*domain.DeploymentRecord
	Summary     DeploymentSummary
}

// DeploymentSummary provides summary statistics
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	store  DeploymentRepository
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, store DeploymentRepository, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		store:  store,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	network := ""
	if !params.AllNetworks && uc.config.Network != nil {
		network = uc.config.Network.Name
	}

	deployments, err := uc.store.List(ctx, network)
	if err != nil {
		return nil, err
	}

	if params.Contract != "" {
		filtered := deployments[:0]
		for _, d := range deployments {
			if d.Contract == params.Contract {
				filtered = append(filtered, d)
			}
		}
		deployments = filtered
	}

	// Sort deployments for consistent output
	sortDeployments(deployments)

	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: make(map[string]int),
	}
	for _, d := range deployments {
		summary.ByNetwork[d.Network]++
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     summary,
	}, nil
}

// sortDeployments orders by network, then deployment time, then contract name
func sortDeployments(deployments []*domain.DeploymentRecord) {
	sort.SliceStable(deployments, func(i, j int) bool {
		a, b := deployments[i], deployments[j]
		if a.Network != b.Network {
			return a.Network < b.Network
		}
		if !a.DeployedAt.Equal(b.DeployedAt) {
			return a.DeployedAt.Before(b.DeployedAt)
		}
		return a.Contract < b.Contract
	})
}
