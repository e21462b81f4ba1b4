package usecase

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// separator frames the output of each deploy script
const separator = "----------------------------------------------------"

// accountAt returns the signer at the given index of the session's account list
func accountAt(ctx context.Context, session ChainSession, index int) (common.Address, error) {
	accounts, err := session.Accounts(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, fmt.Errorf("network %s: %w", session.Network().Name, domain.ErrNoAccounts)
	}
	if index < 0 || index >= len(accounts) {
		return common.Address{}, fmt.Errorf("account index %d out of range: network %s has %d accounts", index, session.Network().Name, len(accounts))
	}
	return accounts[index], nil
}
