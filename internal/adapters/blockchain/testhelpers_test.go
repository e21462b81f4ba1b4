package blockchain

import (
	"context"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// Hand-assembled fixtures:
//   echoBytecode stores its 32-byte constructor arg in slot 0 and returns slot 0 for any call.
//   revertBytecode reverts every call with the calldata as revert data.
const (
	echoBytecode   = "0x60203860209003600039600051600055600b601c600039600b6000f360005460005260206000f3"
	revertBytecode = "0x600a600c600039600a6000f3366000600037366000fd"

	echoABI = `[
		{"type":"constructor","inputs":[{"name":"value","type":"address"}],"stateMutability":"nonpayable"},
		{"type":"function","name":"getPriceFeed","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
	]`
	revertABI = `[
		{"type":"function","name":"fund","inputs":[],"outputs":[],"stateMutability":"payable"},
		{"type":"error","name":"FundMe__NotOwner","inputs":[]}
	]`
)

var (
	devAccount0   = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	devAccount1   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func hardhatConfig() *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network: &domain.Network{Name: "hardhat", ChainID: 1337, InProcess: true},
		Project: &config.ProjectConfig{
			DevelopmentChains: domain.DevelopmentChains{"hardhat", "localhost"},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	session, err := NewSession(hardhatConfig(), discardLogger)
	require.NoError(t, err)
	t.Cleanup(session.Close)
	return session
}

func mustArtifact(t *testing.T, name, rawABI, bytecode string) *domain.Artifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(rawABI))
	require.NoError(t, err)
	return &domain.Artifact{
		Name:     name,
		ABI:      parsed,
		RawABI:   []byte(rawABI),
		Bytecode: common.FromHex(bytecode),
	}
}

type stubArtifacts map[string]*domain.Artifact

func (s stubArtifacts) GetArtifact(_ context.Context, name string) (*domain.Artifact, error) {
	if a, ok := s[name]; ok {
		return a, nil
	}
	return nil, domain.ErrArtifactNotFound
}

type memDeployments struct {
	mu      sync.Mutex
	records map[string]*domain.DeploymentRecord
	saves   int
}

func newMemDeployments() *memDeployments {
	return &memDeployments{records: make(map[string]*domain.DeploymentRecord)}
}

func (m *memDeployments) Get(_ context.Context, network, contract string) (*domain.DeploymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[network+"/"+contract]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memDeployments) Save(_ context.Context, r *domain.DeploymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.records[r.Network+"/"+r.Contract] = r
	return nil
}

func (m *memDeployments) List(context.Context, string) ([]*domain.DeploymentRecord, error) {
	return nil, nil
}

func (m *memDeployments) Reset(context.Context, string) error { return nil }

type gasEntry struct {
	contract, method string
	gasUsed          uint64
}

type recordingGas struct {
	entries []gasEntry
}

func (g *recordingGas) Record(contract, method string, gasUsed uint64, _ *big.Int) {
	g.entries = append(g.entries, gasEntry{contract, method, gasUsed})
}
