package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConfiguration is returned when the active chain cannot be served by the configuration
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownNetwork is returned when a network name is not configured
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrArtifactNotFound is returned when no compiled artifact exists for a contract
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrMockNotDeployed is returned when a development chain has no price feed mock
	ErrMockNotDeployed = errors.New("price feed mock not deployed")

	// ErrNetworkMismatch is returned when the RPC reports a different chain ID than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrNoAccounts is returned when a network has no usable signer
	ErrNoAccounts = errors.New("no accounts configured")

	// ErrTransactionReverted is returned when a mined transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrAborted is returned when the user declines to broadcast
	ErrAborted = errors.New("aborted by user")
)

// ConfigurationError reports a chain that has neither a configuration entry nor
// a development-chain substitute.
type ConfigurationError struct {
	Network string
	ChainID uint64
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: network %s (chain %d): %s", e.Network, e.ChainID, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// UnknownNetworkError carries close matches for a mistyped network name.
type UnknownNetworkError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownNetworkError) Error() string {
	msg := fmt.Sprintf("unknown network %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e *UnknownNetworkError) Unwrap() error {
	return ErrUnknownNetwork
}

// RevertError is a transaction or call rejected by the EVM, with the decoded reason when available.
type RevertError struct {
	Reason string
	Data   []byte
	Err    error
}

func (e *RevertError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("execution reverted: %s", e.Reason)
	}
	return "execution reverted"
}

func (e *RevertError) Unwrap() error {
	return e.Err
}
