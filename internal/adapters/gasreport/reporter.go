package gasreport

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/params"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

type methodKey struct {
	contract string
	method   string
}

type methodStats struct {
	calls    int
	min, max uint64
	total    uint64
	gasPrice *big.Int
}

// Reporter aggregates gas usage per contract method and renders it as a table.
// Recording is a no-op when the report is disabled.
type Reporter struct {
	settings   config.GasReporterConfig
	outputFile string
	network    string
	prices     *PriceClient
	log        *slog.Logger

	mu    sync.Mutex
	stats map[methodKey]*methodStats
}

// NewReporter creates a reporter from the project's gas reporter settings
func NewReporter(cfg *config.RuntimeConfig, prices *PriceClient, log *slog.Logger) *Reporter {
	settings := cfg.Project.GasReporter
	r := &Reporter{
		settings: settings,
		prices:   prices,
		log:      log.With("component", "GasReporter"),
		stats:    make(map[methodKey]*methodStats),
	}
	if settings.OutputFile != "" {
		r.outputFile = cfg.Project.GasReportFile(cfg.ProjectRoot)
	}
	if cfg.Network != nil {
		r.network = cfg.Network.Name
	}
	return r
}

// Record adds one mined transaction
func (r *Reporter) Record(contract, method string, gasUsed uint64, gasPrice *big.Int) {
	if !r.settings.Enabled {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := methodKey{contract, method}
	s, ok := r.stats[key]
	if !ok {
		s = &methodStats{min: gasUsed, max: gasUsed}
		r.stats[key] = s
	}
	s.calls++
	s.total += gasUsed
	s.min = min(s.min, gasUsed)
	s.max = max(s.max, gasUsed)
	if gasPrice != nil {
		s.gasPrice = new(big.Int).Set(gasPrice)
	}
}

// WriteReport renders the collected usage. With an output file configured the
// report is written there and the path is returned; otherwise the rendered
// table is returned. Nothing is produced when disabled or nothing was recorded.
func (r *Reporter) WriteReport(ctx context.Context) (string, error) {
	if !r.settings.Enabled {
		return "", nil
	}

	r.mu.Lock()
	empty := len(r.stats) == 0
	r.mu.Unlock()
	if empty {
		return "", nil
	}

	var price *big.Float
	if r.settings.CoinMarketCap != "" && r.prices != nil {
		p, err := r.prices.TokenPrice(ctx, r.token(), r.currency())
		if err != nil {
			r.log.Warn("failed to fetch token price, costs omitted", "error", err)
		} else {
			price = p
		}
	}

	report := r.Render(price)
	if r.outputFile == "" {
		return report, nil
	}

	if err := os.MkdirAll(filepath.Dir(r.outputFile), 0755); err != nil {
		return "", fmt.Errorf("failed to create gas report directory: %w", err)
	}
	if err := os.WriteFile(r.outputFile, []byte(report), 0644); err != nil {
		return "", fmt.Errorf("failed to write gas report: %w", err)
	}
	return r.outputFile, nil
}

// Render formats the report. price is the token price in the report currency, or nil.
func (r *Reporter) Render(price *big.Float) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]methodKey, 0, len(r.stats))
	for k := range r.stats {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].contract != keys[j].contract {
			return keys[i].contract < keys[j].contract
		}
		return keys[i].method < keys[j].method
	})

	header := r.style(color.Bold)
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(header.Sprintf("Gas usage on %s", r.networkName()))

	costHeader := fmt.Sprintf("%s (avg)", r.currency())
	t.AppendHeader(table.Row{"Contract", "Method", "Min", "Max", "Avg", "# calls", costHeader})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	name := r.style(color.FgCyan)
	for _, k := range keys {
		s := r.stats[k]
		avg := s.total / uint64(s.calls)
		t.AppendRow(table.Row{
			name.Sprint(k.contract),
			k.method,
			s.min,
			s.max,
			avg,
			s.calls,
			formatCost(avg, s.gasPrice, price),
		})
	}

	if price != nil {
		t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%s/%s", r.token(), r.currency()), price.Text('f', 2)})
	}

	return t.Render() + "\n"
}

func (r *Reporter) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if r.settings.NoColors || r.outputFile != "" {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c
}

func (r *Reporter) networkName() string {
	if r.network == "" {
		return "unknown network"
	}
	return r.network
}

func (r *Reporter) token() string {
	if r.settings.Token == "" {
		return "ETH"
	}
	return strings.ToUpper(r.settings.Token)
}

func (r *Reporter) currency() string {
	if r.settings.Currency == "" {
		return "USD"
	}
	return strings.ToUpper(r.settings.Currency)
}

// formatCost converts gas * gasPrice (wei) to the report currency
func formatCost(gas uint64, gasPrice *big.Int, price *big.Float) string {
	if gasPrice == nil || price == nil {
		return "-"
	}
	wei := new(big.Int).Mul(new(big.Int).SetUint64(gas), gasPrice)
	eth := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return new(big.Float).Mul(eth, price).Text('f', 2)
}

var _ usecase.GasReporter = (*Reporter)(nil)
