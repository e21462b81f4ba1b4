package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	fundmeconfig "github.com/trebuchet-org/fundme/internal/config"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

const fundMeABI = `[
	{"type":"constructor","inputs":[{"name":"priceFeed","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"fund","inputs":[],"outputs":[],"stateMutability":"payable"}
]`

var testAccounts = []common.Address{
	common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
	common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
}

func testConfig(networkName string) *config.RuntimeConfig {
	project := fundmeconfig.DefaultProjectConfig()
	network := *project.Networks[networkName]
	return &config.RuntimeConfig{
		ProjectRoot:    "/tmp/fundme",
		Network:        &network,
		NonInteractive: true,
		Project:        project,
	}
}

// fakeSession is an in-memory ChainSession
type fakeSession struct {
	network  *domain.Network
	accounts []common.Address
	balances map[common.Address]*big.Int
}

func newFakeSession(network *domain.Network) *fakeSession {
	return &fakeSession{
		network:  network,
		accounts: testAccounts,
		balances: make(map[common.Address]*big.Int),
	}
}

func (s *fakeSession) Network() *domain.Network { return s.network }

func (s *fakeSession) ChainID(context.Context) (uint64, error) { return s.network.ChainID, nil }

func (s *fakeSession) Accounts(context.Context) ([]common.Address, error) { return s.accounts, nil }

func (s *fakeSession) BalanceAt(_ context.Context, address common.Address) (*big.Int, error) {
	if b, ok := s.balances[address]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (s *fakeSession) CodeAt(context.Context, common.Address) ([]byte, error) { return []byte{0x00}, nil }

// memRepo is an in-memory DeploymentRepository
type memRepo struct {
	mu      sync.Mutex
	records map[string]*domain.DeploymentRecord
	resets  []string
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]*domain.DeploymentRecord)}
}

func (r *memRepo) Get(_ context.Context, network, contract string) (*domain.DeploymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[network+"/"+contract]; ok {
		return rec, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) Save(_ context.Context, record *domain.DeploymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.Network+"/"+record.Contract] = record
	return nil
}

func (r *memRepo) List(_ context.Context, network string) ([]*domain.DeploymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.DeploymentRecord
	for _, rec := range r.records {
		if network == "" || rec.Network == network {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRepo) Reset(_ context.Context, network string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, network)
	for key := range r.records {
		if strings.HasPrefix(key, network+"/") {
			delete(r.records, key)
		}
	}
	return nil
}

// fakeDeployer assigns sequential addresses and saves records like the real deployer
type fakeDeployer struct {
	network  *domain.Network
	repo     *memRepo
	requests []DeployRequest
	err      error
}

func (d *fakeDeployer) Deploy(ctx context.Context, req DeployRequest) (*domain.DeploymentRecord, error) {
	if d.err != nil {
		return nil, d.err
	}
	d.requests = append(d.requests, req)
	record := &domain.DeploymentRecord{
		Contract:      req.Contract,
		Address:       common.BigToAddress(big.NewInt(int64(0x1000 + len(d.requests)))),
		Args:          domain.FormatArgs(req.Args),
		Deployer:      req.From,
		Network:       d.network.Name,
		ChainID:       d.network.ChainID,
		NewlyDeployed: true,
	}
	if err := d.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (d *fakeDeployer) contracts() []string {
	out := make([]string, len(d.requests))
	for i, r := range d.requests {
		out[i] = r.Contract
	}
	return out
}

// fakeArtifacts serves a FundMe artifact with a constructor(address)
type fakeArtifacts struct{}

func (fakeArtifacts) GetArtifact(_ context.Context, name string) (*domain.Artifact, error) {
	if name != domain.ContractFundMe {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrArtifactNotFound)
	}
	parsed, err := abi.JSON(strings.NewReader(fundMeABI))
	if err != nil {
		return nil, err
	}
	return &domain.Artifact{Name: name, ABI: parsed}, nil
}

// fakeVerifier returns a fixed error and records requests
type fakeVerifier struct {
	err      error
	requests []SourceVerificationRequest
}

func (v *fakeVerifier) VerifySource(_ context.Context, req SourceVerificationRequest) error {
	v.requests = append(v.requests, req)
	return v.err
}

// recordingSink captures progress messages
type recordingSink struct {
	infos  []string
	errors []string
	stages []string
}

func (s *recordingSink) OnProgress(_ context.Context, event ProgressEvent) {
	s.stages = append(s.stages, event.Stage)
}
func (s *recordingSink) Info(message string)  { s.infos = append(s.infos, message) }
func (s *recordingSink) Error(message string) { s.errors = append(s.errors, message) }

// fakeConfirmer answers every prompt the same way
type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}

// fakeFundMe tracks balances like the deployed contract would
type fakeFundMe struct {
	address common.Address
	owner   common.Address
	session *fakeSession
	funded  map[common.Address]*big.Int
	funders []common.Address
	calls   []string
}

var errNotOwner = errors.New("execution reverted: FundMe__NotOwner()")

func (f *fakeFundMe) Address() common.Address { return f.address }

func (f *fakeFundMe) Fund(_ context.Context, from common.Address, value *big.Int) (*domain.TxResult, error) {
	f.calls = append(f.calls, "fund")
	if value.Sign() == 0 {
		return nil, &domain.RevertError{Reason: "You need to spend more ETH!"}
	}
	prev, ok := f.funded[from]
	if !ok {
		prev = new(big.Int)
	}
	f.funded[from] = new(big.Int).Add(prev, value)
	f.funders = append(f.funders, from)
	bal, _ := f.session.BalanceAt(context.Background(), f.address)
	f.session.balances[f.address] = bal.Add(bal, value)
	return &domain.TxResult{Hash: common.HexToHash("0x01"), GasUsed: 21000}, nil
}

func (f *fakeFundMe) withdraw(name string, from common.Address) (*domain.TxResult, error) {
	f.calls = append(f.calls, name)
	if from != f.owner {
		return nil, errNotOwner
	}
	f.session.balances[f.address] = new(big.Int)
	f.funded = make(map[common.Address]*big.Int)
	f.funders = nil
	return &domain.TxResult{Hash: common.HexToHash("0x02"), GasUsed: 40000}, nil
}

func (f *fakeFundMe) Withdraw(_ context.Context, from common.Address) (*domain.TxResult, error) {
	return f.withdraw("withdraw", from)
}

func (f *fakeFundMe) CheaperWithdraw(_ context.Context, from common.Address) (*domain.TxResult, error) {
	return f.withdraw("cheaperWithdraw", from)
}

func (f *fakeFundMe) Owner(context.Context) (common.Address, error) { return f.owner, nil }

func (f *fakeFundMe) PriceFeed(context.Context) (common.Address, error) { return common.Address{}, nil }

func (f *fakeFundMe) Version(context.Context) (*big.Int, error) { return big.NewInt(4), nil }

func (f *fakeFundMe) Funder(_ context.Context, index int64) (common.Address, error) {
	if index < 0 || index >= int64(len(f.funders)) {
		return common.Address{}, &domain.RevertError{}
	}
	return f.funders[index], nil
}

func (f *fakeFundMe) AmountFunded(_ context.Context, funder common.Address) (*big.Int, error) {
	if v, ok := f.funded[funder]; ok {
		return new(big.Int).Set(v), nil
	}
	return new(big.Int), nil
}

// fakeBinder hands out one fakeFundMe per address
type fakeBinder struct {
	session   *fakeSession
	contracts map[common.Address]*fakeFundMe
}

func (b *fakeBinder) Bind(_ context.Context, record *domain.DeploymentRecord) (FundMeContract, error) {
	if c, ok := b.contracts[record.Address]; ok {
		return c, nil
	}
	c := &fakeFundMe{
		address: record.Address,
		owner:   record.Deployer,
		session: b.session,
		funded:  make(map[common.Address]*big.Int),
	}
	b.contracts[record.Address] = c
	return c, nil
}

// fakeAnvil records operations
type fakeAnvil struct {
	running bool
	started []*domain.AnvilInstance
	stopped int
}

func (a *fakeAnvil) Start(_ context.Context, instance *domain.AnvilInstance) error {
	a.running = true
	a.started = append(a.started, instance)
	return nil
}

func (a *fakeAnvil) Stop(context.Context, *domain.AnvilInstance) error {
	a.running = false
	a.stopped++
	return nil
}

func (a *fakeAnvil) GetStatus(_ context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error) {
	status := &domain.AnvilStatus{Running: a.running}
	if a.running {
		status.PID = 4242
		status.RPCURL = "http://localhost:" + instance.Port
		status.RPCHealthy = true
	}
	return status, nil
}

func (a *fakeAnvil) StreamLogs(_ context.Context, _ *domain.AnvilInstance, w io.Writer) error {
	_, err := io.WriteString(w, "Listening on 0.0.0.0:8545\n")
	return err
}

var errAlreadyVerified = errors.New("Contract source code already verified")
