package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/fundme/internal/adapters/anvil"
	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/adapters/fundme"
	"github.com/trebuchet-org/fundme/internal/adapters/gasreport"
	"github.com/trebuchet-org/fundme/internal/adapters/interactive"
	"github.com/trebuchet-org/fundme/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/fundme/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/fundme/internal/adapters/verification"
	"github.com/trebuchet-org/fundme/internal/config"
	domainconfig "github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// ProvideNetworkResolver provides the resolver over the project's networks
func ProvideNetworkResolver(cfg *domainconfig.RuntimeConfig) *config.NetworkResolver {
	return config.NewNetworkResolver(cfg.Project)
}

// RepositorySet provides deployment and artifact storage
var RepositorySet = wire.NewSet(
	deployments.NewRepository,

	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),
)

// BlockchainSet provides the chain session and contract clients
var BlockchainSet = wire.NewSet(
	blockchain.NewSession,
	wire.Bind(new(usecase.ChainSession), new(*blockchain.Session)),

	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),

	fundme.NewBinder,
	wire.Bind(new(usecase.FundMeBinder), new(*fundme.Binder)),
)

// VerificationSet provides block explorer verification
var VerificationSet = wire.NewSet(
	verification.NewEtherscanVerifier,
	wire.Bind(new(usecase.SourceVerifier), new(*verification.EtherscanVerifier)),
)

// GasReportSet provides gas usage collection
var GasReportSet = wire.NewSet(
	gasreport.NewPriceClient,
	gasreport.NewReporter,
	wire.Bind(new(usecase.GasRecorder), new(*gasreport.Reporter)),
	wire.Bind(new(usecase.GasReporter), new(*gasreport.Reporter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AnvilSet provides local node management
var AnvilSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.AnvilManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	BlockchainSet,
	VerificationSet,
	GasReportSet,
	InteractiveSet,
	ConfigSet,
	AnvilSet,
)
