package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// TagAll selects every deploy script
const TagAll = "all"

// DeployScript is one step of the deployment fixture
type DeployScript struct {
	Name string
	Tags []string
	run  func(ctx context.Context) ([]*domain.DeploymentRecord, error)
}

// RunDeploy runs the deploy scripts in order, filtered by tag
type RunDeploy struct {
	cfg         *config.RuntimeConfig
	session     ChainSession
	deployments DeploymentRepository
	confirmer   Confirmer
	progress    ProgressSink
	log         *slog.Logger
	scripts     []DeployScript
}

// NewRunDeploy creates a new RunDeploy use case
func NewRunDeploy(
	cfg *config.RuntimeConfig,
	session ChainSession,
	deployments DeploymentRepository,
	mocks *DeployMocks,
	fundMe *DeployFundMe,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeploy {
	return &RunDeploy{
		cfg:         cfg,
		session:     session,
		deployments: deployments,
		confirmer:   confirmer,
		progress:    progress,
		log:         log.With("component", "RunDeploy"),
		scripts: []DeployScript{
			{
				Name: "00-deploy-mocks",
				Tags: []string{TagAll, "mocks"},
				run: func(ctx context.Context) ([]*domain.DeploymentRecord, error) {
					record, err := mocks.Run(ctx)
					if err != nil || record == nil {
						return nil, err
					}
					return []*domain.DeploymentRecord{record}, nil
				},
			},
			{
				Name: "01-deploy-fund-me",
				Tags: []string{TagAll, "fundme"},
				run: func(ctx context.Context) ([]*domain.DeploymentRecord, error) {
					result, err := fundMe.Run(ctx)
					if err != nil {
						return nil, err
					}
					return []*domain.DeploymentRecord{result.Record}, nil
				},
			},
		},
	}
}

// RunDeployOptions selects which scripts run
type RunDeployOptions struct {
	Tags  []string
	Reset bool
}

// RunDeployResult contains the result of a deploy run
type RunDeployResult struct {
	Network *domain.Network
	Scripts []string
	Records []*domain.DeploymentRecord
}

// Scripts returns the deploy scripts in execution order
func (uc *RunDeploy) Scripts() []DeployScript {
	return uc.scripts
}

// Execute runs every script whose tags intersect the requested tags
func (uc *RunDeploy) Execute(ctx context.Context, opts RunDeployOptions) (*RunDeployResult, error) {
	network := uc.session.Network()
	tags := opts.Tags
	if len(tags) == 0 {
		tags = []string{TagAll}
	}

	selected := lo.Filter(uc.scripts, func(s DeployScript, _ int) bool {
		return lo.Some(s.Tags, tags)
	})
	if len(selected) == 0 {
		return nil, fmt.Errorf("no deploy scripts match tags %v", tags)
	}

	if !uc.cfg.Project.DevelopmentChains.Contains(network.Name) && !uc.cfg.NonInteractive {
		ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy to %s (chain %d)?", network.Name, network.ChainID))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAborted
		}
	}

	if opts.Reset {
		uc.log.Info("resetting deployments", "network", network.Name)
		if err := uc.deployments.Reset(ctx, network.Name); err != nil {
			return nil, fmt.Errorf("failed to reset deployments: %w", err)
		}
	}

	result := &RunDeployResult{Network: network}
	for _, script := range selected {
		uc.log.Debug("running deploy script", "script", script.Name, "network", network.Name)
		records, err := script.run(ctx)
		if err != nil {
			return nil, fmt.Errorf("deploy script %s: %w", script.Name, err)
		}
		result.Scripts = append(result.Scripts, script.Name)
		result.Records = append(result.Records, records...)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted})
	return result, nil
}
