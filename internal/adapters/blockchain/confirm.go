package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// confirmationPollInterval is how often the head is checked while waiting for confirmations
var confirmationPollInterval = 2 * time.Second

var errNotConfirmed = errors.New("not enough confirmations yet")

// WaitConfirmed waits until tx is mined with status success and the chain head is
// confirmations-1 blocks past its block. Reverted transactions are replayed to decode a reason.
func WaitConfirmed(
	ctx context.Context,
	backend Backend,
	tx *types.Transaction,
	confirmations uint64,
	from common.Address,
	contractABI *abi.ABI,
) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("tx %s failed to confirm: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return nil, revertedTxError(ctx, backend, from, tx, receipt, contractABI)
	}

	if confirmations <= 1 {
		return receipt, nil
	}

	target := receipt.BlockNumber.Uint64() + confirmations - 1
	delay := confirmationPollInterval
	m, mines := backend.(miner)
	if mines {
		delay = 0
	}
	err = retry.Do(
		func() error {
			head, err := backend.BlockNumber(ctx)
			if err != nil {
				return err
			}
			if head >= target {
				return nil
			}
			// In-process chains only advance when asked to
			if mines {
				m.Commit()
			}
			return errNotConfirmed
		},
		retry.Context(ctx),
		retry.Attempts(0),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for %d confirmations of %s: %w", confirmations, tx.Hash().Hex(), err)
	}
	return receipt, nil
}

// revertedTxError replays a failed transaction at its block to recover the revert reason
func revertedTxError(
	ctx context.Context,
	backend Backend,
	from common.Address,
	tx *types.Transaction,
	receipt *types.Receipt,
	contractABI *abi.ABI,
) error {
	call := ethereum.CallMsg{
		From:  from,
		To:    tx.To(),
		Data:  tx.Data(),
		Value: tx.Value(),
		Gas:   tx.Gas(),
	}
	_, err := backend.CallContract(ctx, call, receipt.BlockNumber)
	if err != nil {
		var revert *domain.RevertError
		if errors.As(DecodeRevert(err, contractABI), &revert) {
			return fmt.Errorf("tx %s: %w", tx.Hash().Hex(), revert)
		}
	}
	return fmt.Errorf("tx %s: %w", tx.Hash().Hex(), domain.ErrTransactionReverted)
}
