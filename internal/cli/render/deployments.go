package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/trebuchet-org/fundme/internal/domain"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// DeploymentsRenderer renders deployment lists and single records
type DeploymentsRenderer struct {
	out    io.Writer
	format string
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer, format string) *DeploymentsRenderer {
	return &DeploymentsRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the deployment list grouped by network
func (r *DeploymentsRenderer) Render(result *usecase.DeploymentListResult) error {
	if r.format != FormatTable {
		return encode(r.out, r.format, result.Deployments)
	}

	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	grouped := lo.GroupBy(result.Deployments, func(d *domain.DeploymentRecord) string {
		return d.Network
	})
	networks := lo.Keys(grouped)
	sort.Strings(networks)

	for i, network := range networks {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		records := grouped[network]

		t := table.NewWriter()
		t.SetOutputMirror(r.out)
		t.SetStyle(table.StyleLight)
		t.SetTitle(fmt.Sprintf("%s (chain %d)", network, records[0].ChainID))
		t.AppendHeader(table.Row{"Contract", "Address", "Args", "Deployed"})
		for _, d := range records {
			t.AppendRow(table.Row{
				d.Contract,
				d.Address.Hex(),
				lo.Ternary(len(d.Args) == 0, "-", fmt.Sprint(d.Args)),
				d.DeployedAt.Format("2006-01-02 15:04:05"),
			})
		}
		t.Render()
	}

	fmt.Fprintf(r.out, "\nTotal deployments: %d\n", result.Summary.Total)
	return nil
}

// RenderRecord renders a single deployment record
func (r *DeploymentsRenderer) RenderRecord(record *domain.DeploymentRecord) error {
	if r.format != FormatTable {
		return encode(r.out, r.format, record)
	}

	bold := color.New(color.Bold)
	bold.Fprintf(r.out, "%s\n", record.Contract)
	fmt.Fprintf(r.out, "  Address:      %s\n", record.Address.Hex())
	fmt.Fprintf(r.out, "  Network:      %s (chain %d)\n", record.Network, record.ChainID)
	fmt.Fprintf(r.out, "  Deployer:     %s\n", record.Deployer.Hex())
	fmt.Fprintf(r.out, "  Transaction:  %s\n", record.TransactionHash.Hex())
	fmt.Fprintf(r.out, "  Block:        %d\n", record.Receipt.BlockNumber)
	fmt.Fprintf(r.out, "  Gas used:     %d\n", record.Receipt.GasUsed)
	if len(record.Args) > 0 {
		fmt.Fprintf(r.out, "  Args:         %v\n", record.Args)
	}
	fmt.Fprintf(r.out, "  Deployed at:  %s\n", record.DeployedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

var _ Renderer[*usecase.DeploymentListResult] = (*DeploymentsRenderer)(nil)
