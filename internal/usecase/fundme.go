package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/trebuchet-org/fundme/internal/domain"
)

// fundMeLoader binds the FundMe deployed on the active network.
// On in-process networks nothing survives between runs, so the fixture is deployed first.
type fundMeLoader struct {
	session     ChainSession
	deployments DeploymentRepository
	binder      FundMeBinder
	fixture     *RunDeploy
}

func (l *fundMeLoader) load(ctx context.Context) (FundMeContract, error) {
	network := l.session.Network()

	record, err := l.deployments.Get(ctx, network.Name, domain.ContractFundMe)
	if errors.Is(err, domain.ErrNotFound) && network.InProcess {
		if _, err := l.fixture.Execute(ctx, RunDeployOptions{Tags: []string{TagAll}}); err != nil {
			return nil, fmt.Errorf("failed to deploy fixture: %w", err)
		}
		record, err = l.deployments.Get(ctx, network.Name, domain.ContractFundMe)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("FundMe is not deployed on %s (run `fundme deploy --network %s`): %w", network.Name, network.Name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load FundMe deployment: %w", err)
	}

	return l.binder.Bind(ctx, record)
}
