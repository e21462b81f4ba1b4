package usecase

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/fundme/internal/domain"
)

// ChainSession is the connection to the active network
type ChainSession interface {
	Network() *domain.Network
	ChainID(ctx context.Context) (uint64, error)
	Accounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
}

// ContractDeployer deploys compiled contracts, reusing identical earlier deployments
type ContractDeployer interface {
	Deploy(ctx context.Context, req DeployRequest) (*domain.DeploymentRecord, error)
}

// DeployRequest describes one contract deployment
type DeployRequest struct {
	Contract          string
	From              common.Address
	Args              []any
	WaitConfirmations uint64
}

// DeploymentRepository handles persistence of deployment records
type DeploymentRepository interface {
	// Get returns domain.ErrNotFound when the contract was never deployed on the network
	Get(ctx context.Context, network, contract string) (*domain.DeploymentRecord, error)
	Save(ctx context.Context, record *domain.DeploymentRecord) error
	// List returns the records of one network, or of every network when network is empty
	List(ctx context.Context, network string) ([]*domain.DeploymentRecord, error)
	Reset(ctx context.Context, network string) error
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*domain.Artifact, error)
}

// SourceVerifier publishes contract sources to a block explorer
type SourceVerifier interface {
	VerifySource(ctx context.Context, req SourceVerificationRequest) error
}

// SourceVerificationRequest carries everything an explorer needs to match bytecode to source
type SourceVerificationRequest struct {
	Network         *domain.Network
	Address         common.Address
	Artifact        *domain.Artifact
	ConstructorArgs []byte
}

// FundMeBinder binds a deployed FundMe record to a typed client
type FundMeBinder interface {
	Bind(ctx context.Context, record *domain.DeploymentRecord) (FundMeContract, error)
}

// FundMeContract is a typed client for a deployed FundMe
type FundMeContract interface {
	Address() common.Address
	Fund(ctx context.Context, from common.Address, value *big.Int) (*domain.TxResult, error)
	Withdraw(ctx context.Context, from common.Address) (*domain.TxResult, error)
	CheaperWithdraw(ctx context.Context, from common.Address) (*domain.TxResult, error)
	Owner(ctx context.Context) (common.Address, error)
	PriceFeed(ctx context.Context) (common.Address, error)
	Version(ctx context.Context) (*big.Int, error)
	Funder(ctx context.Context, index int64) (common.Address, error)
	AmountFunded(ctx context.Context, funder common.Address) (*big.Int, error)
}

// GasRecorder collects gas usage per contract method
type GasRecorder interface {
	Record(contract, method string, gasUsed uint64, gasPrice *big.Int)
}

// GasReporter writes the collected gas usage
type GasReporter interface {
	GasRecorder
	WriteReport(ctx context.Context) (string, error)
}

// Confirmer asks the user before broadcasting to a live network
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AnvilManager manages local anvil node instances
type AnvilManager interface {
	Start(ctx context.Context, instance *domain.AnvilInstance) error
	Stop(ctx context.Context, instance *domain.AnvilInstance) error
	GetStatus(ctx context.Context, instance *domain.AnvilInstance) (*domain.AnvilStatus, error)
	StreamLogs(ctx context.Context, instance *domain.AnvilInstance, writer io.Writer) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// Stages reported while deploying
const (
	StageResolving = "Resolving"
	StageDeploying = "Deploying"
	StageWaiting   = "Waiting"
	StageVerifying = "Verifying"
	StageCompleted = "Completed"
)

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	Names() []string
	Resolve(ctx context.Context, name string) (*domain.Network, error)
}
