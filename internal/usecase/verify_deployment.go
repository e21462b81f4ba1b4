package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// VerifyDeployment verifies a contract recorded in the deployment registry
type VerifyDeployment struct {
	config    *config.RuntimeConfig
	store     DeploymentRepository
	artifacts ArtifactRepository
	verifier  *VerifyContract
}

// NewVerifyDeployment creates a new VerifyDeployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	store DeploymentRepository,
	artifacts ArtifactRepository,
	verifier *VerifyContract,
) *VerifyDeployment {
	return &VerifyDeployment{
		config:    cfg,
		store:     store,
		artifacts: artifacts,
		verifier:  verifier,
	}
}

// VerifyDeploymentResult contains the result of verifying a recorded deployment
type VerifyDeploymentResult struct {
	Record  *domain.DeploymentRecord
	Outcome VerificationOutcome
}

// Run verifies the named contract's deployment on the active network.
// Lookup errors are returned; verification errors are only reported.
func (uc *VerifyDeployment) Run(ctx context.Context, contract string) (*VerifyDeploymentResult, error) {
	network := uc.config.Network
	if uc.config.Project.DevelopmentChains.Contains(network.Name) {
		return nil, fmt.Errorf("network %s is a development chain and has no block explorer", network.Name)
	}
	if uc.config.EtherscanAPIKey == "" {
		return nil, fmt.Errorf("ETHERSCAN_API_KEY is not set")
	}

	record, err := uc.store.Get(ctx, network.Name, contract)
	if err != nil {
		return nil, fmt.Errorf("deployment %s on %s: %w", contract, network.Name, err)
	}

	args, err := uc.constructorArgs(ctx, record)
	if err != nil {
		return nil, err
	}

	return &VerifyDeploymentResult{
		Record:  record,
		Outcome: uc.verifier.Verify(ctx, network, record.Contract, record.Address, args),
	}, nil
}

// constructorArgs decodes the ABI-encoded args stored with the record
func (uc *VerifyDeployment) constructorArgs(ctx context.Context, record *domain.DeploymentRecord) ([]any, error) {
	if record.ConstructorArgs == "" {
		return nil, nil
	}
	artifact, err := uc.artifacts.GetArtifact(ctx, record.Contract)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}
	data, err := hexutil.Decode(record.ConstructorArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid constructor args in registry: %w", err)
	}
	args, err := artifact.ABI.Constructor.Inputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode constructor args: %w", err)
	}
	return args, nil
}
