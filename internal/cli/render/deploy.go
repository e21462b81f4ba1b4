package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DeployRenderer renders the result of a deploy run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints one row per deployment touched by the run
func (r *DeployRenderer) Render(result *usecase.RunDeployResult) error {
	if len(result.Records) == 0 {
		fmt.Fprintf(r.out, "No contracts deployed on %s\n", result.Network.Name)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Deployments on %s (chain %d)", result.Network.Name, result.Network.ChainID))
	t.AppendHeader(table.Row{"Contract", "Address", "Block", "Gas", "Status"})

	for _, record := range result.Records {
		status := color.New(color.FgGreen).Sprint("deployed")
		if !record.NewlyDeployed {
			status = color.New(color.FgYellow).Sprint("reused")
		}
		t.AppendRow(table.Row{
			record.Contract,
			record.Address.Hex(),
			record.Receipt.BlockNumber,
			record.Receipt.GasUsed,
			status,
		})
	}
	t.Render()

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Ran %d deploy script(s)", len(result.Scripts))))
	return nil
}

var _ Renderer[*usecase.RunDeployResult] = (*DeployRenderer)(nil)
