package usecase

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
)

// Node operations
const (
	NodeStart   = "start"
	NodeStop    = "stop"
	NodeRestart = "restart"
	NodeStatus  = "status"
	NodeLogs    = "logs"
)

// ManageNode runs the local anvil node backing the localhost network
type ManageNode struct {
	cfg      *config.RuntimeConfig
	anvil    AnvilManager
	progress ProgressSink
}

// NewManageNode creates a new ManageNode use case
func NewManageNode(cfg *config.RuntimeConfig, anvil AnvilManager, progress ProgressSink) *ManageNode {
	return &ManageNode{
		cfg:      cfg,
		anvil:    anvil,
		progress: progress,
	}
}

// ManageNodeParams contains parameters for node operations
type ManageNodeParams struct {
	Operation string
	// Network whose RPC URL and chain ID the node serves; defaults to localhost
	Network string
	// Port overrides the port taken from the network's RPC URL
	Port string
	// Logs receives the log stream of the logs operation
	Logs io.Writer
}

// ManageNodeResult contains the result of a node operation
type ManageNodeResult struct {
	Operation string
	Instance  *domain.AnvilInstance
	Status    *domain.AnvilStatus
	Message   string
}

// Execute performs the node operation
func (m *ManageNode) Execute(ctx context.Context, params ManageNodeParams) (*ManageNodeResult, error) {
	instance, err := m.instance(params)
	if err != nil {
		return nil, err
	}

	result := &ManageNodeResult{Operation: params.Operation, Instance: instance}

	switch params.Operation {
	case NodeStart:
		err = m.start(ctx, instance, result)
	case NodeStop:
		err = m.stop(ctx, instance, result)
	case NodeRestart:
		if err = m.stop(ctx, instance, result); err == nil {
			err = m.start(ctx, instance, result)
		}
	case NodeStatus:
		result.Status, err = m.anvil.GetStatus(ctx, instance)
	case NodeLogs:
		if params.Logs == nil {
			return nil, fmt.Errorf("logs operation needs a writer")
		}
		err = m.anvil.StreamLogs(ctx, instance, params.Logs)
	default:
		return nil, fmt.Errorf("unknown operation: %s", params.Operation)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// instance derives the node's port and chain ID from the network configuration
func (m *ManageNode) instance(params ManageNodeParams) (*domain.AnvilInstance, error) {
	name := params.Network
	if name == "" {
		name = "localhost"
	}
	network, ok := m.cfg.Project.Networks[name]
	if !ok {
		return nil, &domain.UnknownNetworkError{Name: name}
	}
	if network.InProcess {
		return nil, fmt.Errorf("network %s runs in-process and needs no node", name)
	}

	port := params.Port
	if port == "" {
		u, err := url.Parse(network.RPCURL)
		if err != nil || u.Port() == "" {
			return nil, fmt.Errorf("cannot derive a port from %s RPC URL %q", name, network.RPCURL)
		}
		port = u.Port()
	}

	instance := &domain.AnvilInstance{
		Name: name,
		Port: port,
	}
	if network.ChainID != 0 {
		instance.ChainID = strconv.FormatUint(network.ChainID, 10)
	}
	return instance, nil
}

func (m *ManageNode) start(ctx context.Context, instance *domain.AnvilInstance, result *ManageNodeResult) error {
	m.progress.Info(fmt.Sprintf("Starting local node '%s' on port %s...", instance.Name, instance.Port))

	status, err := m.anvil.GetStatus(ctx, instance)
	if err == nil && status.Running {
		return fmt.Errorf("node '%s' is already running (PID %d)", instance.Name, status.PID)
	}

	if err := m.anvil.Start(ctx, instance); err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}

	status, err = m.anvil.GetStatus(ctx, instance)
	if err != nil {
		return fmt.Errorf("failed to get status after start: %w", err)
	}
	result.Status = status
	result.Message = fmt.Sprintf("Node '%s' started with PID %d at %s", instance.Name, status.PID, status.RPCURL)
	return nil
}

func (m *ManageNode) stop(ctx context.Context, instance *domain.AnvilInstance, result *ManageNodeResult) error {
	status, err := m.anvil.GetStatus(ctx, instance)
	if err != nil || !status.Running {
		result.Message = fmt.Sprintf("Node '%s' is not running", instance.Name)
		return nil
	}

	m.progress.Info(fmt.Sprintf("Stopping local node '%s'...", instance.Name))
	if err := m.anvil.Stop(ctx, instance); err != nil {
		return fmt.Errorf("failed to stop node: %w", err)
	}
	result.Message = fmt.Sprintf("Node '%s' stopped", instance.Name)
	return nil
}
