package fundme

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Binder creates FundMe clients from deployment records
type Binder struct {
	session   *blockchain.Session
	artifacts usecase.ArtifactRepository
	gas       usecase.GasRecorder
	log       *slog.Logger
}

// NewBinder creates a new binder
func NewBinder(
	session *blockchain.Session,
	artifacts usecase.ArtifactRepository,
	gas usecase.GasRecorder,
	log *slog.Logger,
) *Binder {
	return &Binder{
		session:   session,
		artifacts: artifacts,
		gas:       gas,
		log:       log.With("component", "FundMeBinder"),
	}
}

// Bind returns a client for the recorded contract. The ABI stored with the
// record is used; older records without one fall back to the artifact.
func (b *Binder) Bind(ctx context.Context, record *domain.DeploymentRecord) (usecase.FundMeContract, error) {
	parsed, err := b.contractABI(ctx, record)
	if err != nil {
		return nil, err
	}

	backend, err := b.session.Backend(ctx)
	if err != nil {
		return nil, err
	}

	code, err := backend.CodeAt(ctx, record.Address, nil)
	if err != nil {
		return nil, err
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("no contract code at %s on %s: %w", record.Address.Hex(), record.Network, domain.ErrNotFound)
	}

	return &Contract{
		address: record.Address,
		name:    record.Contract,
		abi:     parsed,
		bound:   bind.NewBoundContract(record.Address, parsed, backend, backend, backend),
		backend: backend,
		session: b.session,
		gas:     b.gas,
		log:     b.log,
	}, nil
}

func (b *Binder) contractABI(ctx context.Context, record *domain.DeploymentRecord) (abi.ABI, error) {
	if len(record.ABI) > 0 {
		parsed, err := abi.JSON(strings.NewReader(string(record.ABI)))
		if err != nil {
			return abi.ABI{}, fmt.Errorf("invalid ABI in %s deployment record: %w", record.Contract, err)
		}
		return parsed, nil
	}

	artifact, err := b.artifacts.GetArtifact(ctx, record.Contract)
	if err != nil {
		return abi.ABI{}, err
	}
	return artifact.ABI, nil
}

var _ usecase.FundMeBinder = (*Binder)(nil)
