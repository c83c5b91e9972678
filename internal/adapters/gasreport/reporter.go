// Package gasreport aggregates gas usage per contract method and writes
// the table the test command leaves behind.
package gasreport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/usecase"
)

// DefaultQuotesURL is the CoinMarketCap latest quotes endpoint
const DefaultQuotesURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/quotes/latest"

// Usage is the aggregated gas of one contract method
type Usage struct {
	Contract string
	Method   string
	Calls    int
	Min      uint64
	Max      uint64
	Total    uint64
}

// Avg returns the mean gas per call
func (u *Usage) Avg() uint64 {
	if u.Calls == 0 {
		return 0
	}
	return u.Total / uint64(u.Calls)
}

// Reporter collects gas usage and renders it with an optional fiat price
type Reporter struct {
	cfg       config.GasReporterConfig
	network   string
	client    *http.Client
	quotesURL string
	log       *slog.Logger

	mu    sync.Mutex
	usage map[string]*Usage
}

// NewReporter creates a reporter from the [gas_reporter] settings
func NewReporter(cfg *config.RuntimeConfig, log *slog.Logger) *Reporter {
	name := ""
	if cfg.Network != nil {
		name = cfg.Network.Name
	}
	return &Reporter{
		cfg:       cfg.GasReporter,
		network:   name,
		client:    &http.Client{Timeout: 10 * time.Second},
		quotesURL: DefaultQuotesURL,
		log:       log,
		usage:     make(map[string]*Usage),
	}
}

// Record adds one observation
func (r *Reporter) Record(contract, method string, gasUsed uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contract + "." + method
	u, ok := r.usage[key]
	if !ok {
		u = &Usage{Contract: contract, Method: method, Min: gasUsed}
		r.usage[key] = u
	}
	u.Calls++
	u.Total += gasUsed
	u.Min = min(u.Min, gasUsed)
	u.Max = max(u.Max, gasUsed)
}

// Usage returns the aggregated rows ordered by contract and method
func (r *Reporter) Usage() []Usage {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := make([]Usage, 0, len(r.usage))
	for _, key := range slices.Sorted(maps.Keys(r.usage)) {
		rows = append(rows, *r.usage[key])
	}
	return rows
}

// Write renders the report to the output file, or stdout when none is set
func (r *Reporter) Write(ctx context.Context) error {
	rows := r.Usage()
	if len(rows) == 0 {
		return nil
	}

	var price float64
	if r.cfg.CoinMarketCapKey != "" && r.cfg.GasPriceGwei > 0 {
		p, err := r.ethPrice(ctx)
		if err != nil {
			r.log.Warn("failed to fetch ETH price", "currency", r.cfg.Currency, "error", err)
		}
		price = p
	}

	if r.cfg.OutputFile == "" {
		return r.render(os.Stdout, rows, price)
	}
	f, err := os.Create(r.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create gas report: %w", err)
	}
	defer f.Close()
	return r.render(f, rows, price)
}

func (r *Reporter) render(out io.Writer, rows []Usage, price float64) error {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	if r.cfg.NoColors {
		t.SetStyle(table.StyleDefault)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.SetTitle(fmt.Sprintf("Gas usage on %s", r.network))

	header := table.Row{"Contract", "Method", "Min", "Max", "Avg", "# calls"}
	withCost := price > 0
	if withCost {
		header = append(header, fmt.Sprintf("%s (avg)", strings.ToLower(r.cfg.Currency)))
	}
	t.AppendHeader(header)

	for _, u := range rows {
		row := table.Row{u.Contract, u.Method, u.Min, u.Max, u.Avg(), u.Calls}
		if withCost {
			row = append(row, fmt.Sprintf("%.2f", float64(u.Avg())*r.cfg.GasPriceGwei*1e-9*price))
		}
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	if withCost {
		t.SetCaption("%s gwei/gas, %.2f %s/eth", trimFloat(r.cfg.GasPriceGwei), price, strings.ToLower(r.cfg.Currency))
	}
	t.Render()
	return nil
}

// ethPrice fetches the ETH quote in the configured currency
func (r *Reporter) ethPrice(ctx context.Context) (float64, error) {
	currency := strings.ToUpper(r.cfg.Currency)
	q := url.Values{}
	q.Set("symbol", "ETH")
	q.Set("convert", currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.quotesURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-CMC_PRO_API_KEY", r.cfg.CoinMarketCapKey)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req) //nolint:gosec // fixed quotes endpoint
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("quotes API returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		Data map[string]struct {
			Quote map[string]struct {
				Price float64 `json:"price"`
			} `json:"quote"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to parse quote: %w", err)
	}
	quote, ok := body.Data["ETH"].Quote[currency]
	if !ok {
		return 0, fmt.Errorf("no ETH quote in %s", currency)
	}
	return quote.Price, nil
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
}

var _ usecase.GasReporter = (*Reporter)(nil)
