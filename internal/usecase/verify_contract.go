package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// VerificationOutcome is how a verification attempt ended
type VerificationOutcome string

const (
	VerificationSkipped         VerificationOutcome = "skipped"
	VerificationVerified        VerificationOutcome = "verified"
	VerificationAlreadyVerified VerificationOutcome = "already verified"
	VerificationFailed          VerificationOutcome = "failed"
)

// VerifyContract publishes a deployed contract's source to the block explorer.
// It never fails its caller: errors are reported through the progress sink.
type VerifyContract struct {
	artifacts ArtifactRepository
	verifier  SourceVerifier
	progress  ProgressSink
	log       *slog.Logger
}

// NewVerifyContract creates a new VerifyContract use case
func NewVerifyContract(
	artifacts ArtifactRepository,
	verifier SourceVerifier,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyContract {
	return &VerifyContract{
		artifacts: artifacts,
		verifier:  verifier,
		progress:  progress,
		log:       log.With("component", "VerifyContract"),
	}
}

// Verify submits the contract at address with its constructor args for verification
func (uc *VerifyContract) Verify(
	ctx context.Context,
	network *domain.Network,
	contract string,
	address common.Address,
	args []any,
) VerificationOutcome {
	uc.progress.Info("Verifying contract...")
	uc.progress.Info(address.Hex())
	uc.progress.Info(fmt.Sprintf("[%s]", strings.Join(domain.FormatArgs(args), ", ")))

	err := uc.verify(ctx, network, contract, address, args)
	switch {
	case err == nil:
		uc.log.Info("contract verified", "contract", contract, "address", address)
		uc.progress.Info(fmt.Sprintf("Successfully verified %s at %s", contract, address.Hex()))
		return VerificationVerified
	case IsAlreadyVerified(err):
		uc.log.Info("contract already verified", "contract", contract, "address", address)
		uc.progress.Info("Already Verified!")
		return VerificationAlreadyVerified
	default:
		uc.log.Error("verification failed", "contract", contract, "address", address, "error", err)
		uc.progress.Error(err.Error())
		return VerificationFailed
	}
}

func (uc *VerifyContract) verify(
	ctx context.Context,
	network *domain.Network,
	contract string,
	address common.Address,
	args []any,
) error {
	artifact, err := uc.artifacts.GetArtifact(ctx, contract)
	if err != nil {
		return fmt.Errorf("failed to load artifact: %w", err)
	}

	encoded, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return fmt.Errorf("failed to encode constructor args: %w", err)
	}

	return uc.verifier.VerifySource(ctx, SourceVerificationRequest{
		Network:         network,
		Address:         address,
		Artifact:        artifact,
		ConstructorArgs: encoded,
	})
}

// IsAlreadyVerified reports whether an explorer error means the source is already published
func IsAlreadyVerified(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "already verified")
}
