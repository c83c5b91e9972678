package gasreport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navillanueva/fcc-solidity-hardhat-lesson7/internal/domain/config"
)

func newTestReporter(t *testing.T, gas config.GasReporterConfig) *Reporter {
	t.Helper()
	cfg := &config.RuntimeConfig{
		Network:     &config.Network{Name: config.SimulatedNetwork},
		GasReporter: gas,
	}
	return NewReporter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReporterAggregates(t *testing.T) {
	r := newTestReporter(t, config.GasReporterConfig{Enabled: true})
	r.Record("FundMe", "fund", 100)
	r.Record("FundMe", "fund", 300)
	r.Record("FundMe", "withdraw", 50)
	r.Record("MockV3Aggregator", "deployment", 500)

	rows := r.Usage()
	require.Len(t, rows, 3)
	assert.Equal(t, Usage{Contract: "FundMe", Method: "fund", Calls: 2, Min: 100, Max: 300, Total: 400}, rows[0])
	assert.Equal(t, uint64(200), rows[0].Avg())
	assert.Equal(t, "withdraw", rows[1].Method)
	assert.Equal(t, "MockV3Aggregator", rows[2].Contract)
}

func TestReporterWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gas-report.txt")
	r := newTestReporter(t, config.GasReporterConfig{Enabled: true, Currency: "USD", OutputFile: out, NoColors: true})
	r.Record("FundMe", "fund", 87_000)

	require.NoError(t, r.Write(context.Background()))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FundMe")
	assert.Contains(t, string(data), "87000")
	assert.NotContains(t, string(data), "usd (avg)")
}

func TestReporterWithPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "cmc-key", req.Header.Get("X-CMC_PRO_API_KEY"))
		assert.Equal(t, "USD", req.URL.Query().Get("convert"))
		_, _ = w.Write([]byte(`{"data":{"ETH":{"quote":{"USD":{"price":2000}}}}}`))
	}))
	defer server.Close()

	out := filepath.Join(t.TempDir(), "gas-report.txt")
	r := newTestReporter(t, config.GasReporterConfig{
		Enabled:          true,
		Currency:         "USD",
		OutputFile:       out,
		NoColors:         true,
		CoinMarketCapKey: "cmc-key",
		GasPriceGwei:     10,
	})
	r.quotesURL = server.URL
	r.Record("FundMe", "fund", 100_000)

	require.NoError(t, r.Write(context.Background()))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	// 100000 gas * 10 gwei = 0.001 ETH = 2.00 USD
	assert.Contains(t, string(data), "2.00")
	assert.Contains(t, string(data), "usd (avg)")
}

func TestReporterNothingRecorded(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gas-report.txt")
	r := newTestReporter(t, config.GasReporterConfig{Enabled: true, OutputFile: out})
	require.NoError(t, r.Write(context.Background()))
	assert.NoFileExists(t, out)
}
