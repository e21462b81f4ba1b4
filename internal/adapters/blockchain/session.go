package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// Session is the connection to the active network. The chain is dialed on first use.
type Session struct {
	network *domain.Network
	keys    []*ecdsa.PrivateKey
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
	closer  func() error
	chainID *big.Int
}

// NewSession creates a session for the configured network.
// Development chains without configured accounts sign with the dev keys.
func NewSession(cfg *config.RuntimeConfig, log *slog.Logger) (*Session, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("no network selected")
	}

	rawKeys := cfg.Network.Accounts
	if len(rawKeys) == 0 && (cfg.Network.InProcess || cfg.IsDevelopmentChain()) {
		rawKeys = DevPrivateKeys
	}

	keys := make([]*ecdsa.PrivateKey, 0, len(rawKeys))
	for i, raw := range rawKeys {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
		if err != nil {
			return nil, fmt.Errorf("network %s: invalid private key at index %d: %w", cfg.Network.Name, i, err)
		}
		keys = append(keys, key)
	}

	return &Session{
		network: cfg.Network,
		keys:    keys,
		log:     log.With("component", "Session", "network", cfg.Network.Name),
	}, nil
}

// Network returns the network this session is bound to
func (s *Session) Network() *domain.Network {
	return s.network
}

// Backend returns the chain client, connecting on first use
func (s *Session) Backend(ctx context.Context) (Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend != nil {
		return s.backend, nil
	}

	if s.network.InProcess {
		if s.network.ChainID != 0 && s.network.ChainID != SimulatedChainID.Uint64() {
			return nil, fmt.Errorf("%w: in-process chain has chain ID %d, network %s is configured with %d",
				domain.ErrNetworkMismatch, SimulatedChainID.Uint64(), s.network.Name, s.network.ChainID)
		}
		sim := newSimBackend(s.addresses())
		s.backend, s.closer, s.chainID = sim, sim.Close, SimulatedChainID
		s.log.Debug("started in-process chain", "chainId", s.chainID)
		return s.backend, nil
	}

	client, err := ethclient.DialContext(ctx, s.network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	// Verify chain ID matches
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if s.network.ChainID != 0 && chainID.Uint64() != s.network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: expected chain ID %d for %s, RPC reports %d",
			domain.ErrNetworkMismatch, s.network.ChainID, s.network.Name, chainID.Uint64())
	}

	s.backend = client
	s.closer = func() error { client.Close(); return nil }
	s.chainID = chainID
	s.log.Debug("connected", "rpc", s.network.RPCURL, "chainId", chainID)
	return s.backend, nil
}

// ChainID returns the chain ID reported by the backend
func (s *Session) ChainID(ctx context.Context) (uint64, error) {
	if _, err := s.Backend(ctx); err != nil {
		return 0, err
	}
	return s.chainID.Uint64(), nil
}

// Accounts returns the signer addresses in configuration order
func (s *Session) Accounts(ctx context.Context) ([]common.Address, error) {
	return s.addresses(), nil
}

// BalanceAt returns the latest balance of an address
func (s *Session) BalanceAt(ctx context.Context, address common.Address) (*big.Int, error) {
	backend, err := s.Backend(ctx)
	if err != nil {
		return nil, err
	}
	return backend.BalanceAt(ctx, address, nil)
}

// CodeAt returns the latest code at an address
func (s *Session) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	backend, err := s.Backend(ctx)
	if err != nil {
		return nil, err
	}
	return backend.CodeAt(ctx, address, nil)
}

// Transactor returns signing options for one of the session's accounts,
// applying the network's gas limit and gas price.
func (s *Session) Transactor(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	if _, err := s.Backend(ctx); err != nil {
		return nil, err
	}

	for _, key := range s.keys {
		if crypto.PubkeyToAddress(key.PublicKey) != from {
			continue
		}
		opts, err := bind.NewKeyedTransactorWithChainID(key, s.chainID)
		if err != nil {
			return nil, fmt.Errorf("failed to create transactor: %w", err)
		}
		opts.Context = ctx
		opts.GasLimit = s.network.GasLimit
		if s.network.GasPrice != nil {
			opts.GasPrice = new(big.Int).Set(s.network.GasPrice)
		}
		return opts, nil
	}
	return nil, fmt.Errorf("no private key for account %s on %s: %w", from.Hex(), s.network.Name, domain.ErrNoAccounts)
}

// Close releases the connection or stops the in-process chain
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closer != nil {
		if err := s.closer(); err != nil {
			s.log.Warn("failed to close backend", "error", err)
		}
	}
	s.backend, s.closer = nil, nil
}

func (s *Session) addresses() []common.Address {
	out := make([]common.Address, len(s.keys))
	for i, key := range s.keys {
		out[i] = crypto.PubkeyToAddress(key.PublicKey)
	}
	return out
}

var _ usecase.ChainSession = (*Session)(nil)
