package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the configured networks with their chain parameters
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in fundme.toml")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("🌐 Available Networks")
	t.AppendHeader(table.Row{"", "Network", "Chain ID", "Type", "Confirmations", "Price Feed"})

	for _, network := range result.Networks {
		marker := ""
		if network.Active {
			marker = color.New(color.FgGreen).Sprint("*")
		}
		if network.Error != nil {
			t.AppendRow(table.Row{marker, network.Name, "-", "-", "-",
				color.New(color.FgRed).Sprintf("error: %v", network.Error)})
			continue
		}

		kind := "public"
		switch {
		case network.InProcess:
			kind = "in-process"
		case network.Development:
			kind = "development"
		}

		feed := "-"
		switch {
		case network.Development:
			feed = color.New(color.FgCyan).Sprint("mock")
		case network.PriceFeed != nil:
			feed = network.PriceFeed.Hex()
		default:
			feed = color.New(color.FgYellow).Sprint("missing")
		}

		t.AppendRow(table.Row{marker, network.Name, network.ChainID, kind, network.Confirmations, feed})
	}
	t.Render()
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
