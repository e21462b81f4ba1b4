package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// ShowDeployment returns a single deployment record of the active network
type ShowDeployment struct {
	config *config.RuntimeConfig
	store  DeploymentRepository
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, store DeploymentRepository) *ShowDeployment {
	return &ShowDeployment{
		config: cfg,
		store:  store,
	}
}

// Run looks up the contract's deployment on the active network
func (uc *ShowDeployment) Run(ctx context.Context, contract string) (*domain.DeploymentRecord, error) {
	record, err := uc.store.Get(ctx, uc.config.Network.Name, contract)
	if err != nil {
		return nil, fmt.Errorf("deployment %s on %s: %w", contract, uc.config.Network.Name, err)
	}
	return record, nil
}
