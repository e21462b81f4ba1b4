package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NodeRenderer renders local node operation results
type NodeRenderer struct {
	out io.Writer
}

// NewNodeRenderer creates a new node renderer
func NewNodeRenderer(out io.Writer) *NodeRenderer {
	return &NodeRenderer{out: out}
}

// Render renders the node operation result
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	switch result.Operation {
	case usecase.NodeStart, usecase.NodeRestart:
		return r.renderStart(result)
	case usecase.NodeStop:
		fmt.Fprintln(r.out, FormatSuccess(result.Message))
		return nil
	case usecase.NodeStatus:
		return r.renderStatus(result)
	case usecase.NodeLogs:
		return nil
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

func (r *NodeRenderer) renderStart(result *usecase.ManageNodeResult) error {
	fmt.Fprintln(r.out, FormatSuccess(result.Message))
	if result.Status != nil {
		color.New(color.FgYellow).Fprintf(r.out, "📋 Logs: %s\n", result.Status.LogFile)
		color.New(color.FgBlue).Fprintf(r.out, "🌐 RPC URL: %s\n", result.Status.RPCURL)
	}
	return nil
}

func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) error {
	status := result.Status
	fmt.Fprintf(r.out, "📊 Node '%s' status:\n", result.Instance.Name)
	if status == nil || !status.Running {
		color.New(color.FgRed).Fprintln(r.out, "Status: ❌ Not running")
		if status != nil && status.Error != "" {
			fmt.Fprintf(r.out, "Error: %s\n", status.Error)
		}
		return nil
	}

	color.New(color.FgGreen).Fprintf(r.out, "Status: 🟢 Running (PID %d)\n", status.PID)
	fmt.Fprintf(r.out, "RPC URL: %s\n", status.RPCURL)
	fmt.Fprintf(r.out, "Log file: %s\n", status.LogFile)
	if status.RPCHealthy {
		color.New(color.FgGreen).Fprintln(r.out, "RPC Health: ✅ Responding")
	} else {
		color.New(color.FgRed).Fprintln(r.out, "RPC Health: ❌ Not responding")
		if status.Error != "" {
			fmt.Fprintf(r.out, "Error: %s\n", status.Error)
		}
	}
	return nil
}

var _ Renderer[*usecase.ManageNodeResult] = (*NodeRenderer)(nil)
