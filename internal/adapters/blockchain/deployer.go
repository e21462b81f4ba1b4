package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Deployer deploys artifacts through the session and records them in the registry.
// A recorded deployment with the same bytecode and args and live code is reused.
type Deployer struct {
	session     *Session
	artifacts   usecase.ArtifactRepository
	deployments usecase.DeploymentRepository
	gas         usecase.GasRecorder
	log         *slog.Logger
}

// NewDeployer creates a new deployer
func NewDeployer(
	session *Session,
	artifacts usecase.ArtifactRepository,
	deployments usecase.DeploymentRepository,
	gas usecase.GasRecorder,
	log *slog.Logger,
) *Deployer {
	return &Deployer{
		session:     session,
		artifacts:   artifacts,
		deployments: deployments,
		gas:         gas,
		log:         log.With("component", "Deployer"),
	}
}

// Deploy deploys req.Contract or returns the identical earlier deployment
func (d *Deployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*domain.DeploymentRecord, error) {
	network := d.session.Network()

	artifact, err := d.artifacts.GetArtifact(ctx, req.Contract)
	if err != nil {
		return nil, err
	}
	if len(artifact.Bytecode) == 0 {
		return nil, fmt.Errorf("%s has no creation bytecode (abstract contract or interface?)", artifact.Name)
	}

	encodedArgs, err := artifact.ABI.Pack("", req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor args for %s: %w", req.Contract, err)
	}
	constructorArgs := ""
	if len(encodedArgs) > 0 {
		constructorArgs = hexutil.Encode(encodedArgs)
	}
	bytecodeHash := crypto.Keccak256Hash(artifact.Bytecode)

	chainID, err := d.session.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	if existing, ok := d.reusable(ctx, network.Name, req.Contract, chainID, bytecodeHash.Hex(), constructorArgs); ok {
		d.log.Info("reusing deployment", "contract", req.Contract, "address", existing.Address)
		return existing, nil
	}

	backend, err := d.session.Backend(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := d.session.Transactor(ctx, req.From)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, backend, req.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment of %s: %w", req.Contract, DecodeRevert(err, &artifact.ABI))
	}
	d.log.Info("deployment sent", "contract", req.Contract, "tx", tx.Hash(), "address", address)

	receipt, err := WaitConfirmed(ctx, backend, tx, req.WaitConfirmations, req.From, &artifact.ABI)
	if err != nil {
		return nil, err
	}

	record := &domain.DeploymentRecord{
		Contract:        req.Contract,
		Address:         address,
		ABI:             artifact.RawABI,
		Args:            domain.FormatArgs(req.Args),
		ConstructorArgs: constructorArgs,
		TransactionHash: tx.Hash(),
		Receipt: domain.ReceiptInfo{
			BlockNumber:       receipt.BlockNumber.Uint64(),
			GasUsed:           receipt.GasUsed,
			EffectiveGasPrice: receipt.EffectiveGasPrice,
			Confirmations:     max(req.WaitConfirmations, 1),
		},
		Deployer:      req.From,
		Network:       network.Name,
		ChainID:       chainID,
		BytecodeHash:  bytecodeHash,
		DeployedAt:    time.Now().UTC(),
		NewlyDeployed: true,
	}

	d.gas.Record(req.Contract, "deployment", receipt.GasUsed, receipt.EffectiveGasPrice)

	if err := d.deployments.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save deployment of %s: %w", req.Contract, err)
	}
	return record, nil
}

// reusable returns the recorded deployment when nothing about it changed
func (d *Deployer) reusable(
	ctx context.Context,
	network, contract string,
	chainID uint64,
	bytecodeHash, constructorArgs string,
) (*domain.DeploymentRecord, bool) {
	existing, err := d.deployments.Get(ctx, network, contract)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			d.log.Warn("failed to read deployment record", "contract", contract, "error", err)
		}
		return nil, false
	}
	if existing.ChainID != chainID ||
		existing.BytecodeHash.Hex() != bytecodeHash ||
		existing.ConstructorArgs != constructorArgs {
		return nil, false
	}

	code, err := d.session.CodeAt(ctx, existing.Address)
	if err != nil || len(code) == 0 {
		return nil, false
	}

	reused := *existing
	reused.NewlyDeployed = false
	return &reused, true
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
