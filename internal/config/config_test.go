package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("ARBSCAN_CONFIG", "")
	t.Setenv("ARBSCAN_LOG_LEVEL", "")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, 2*time.Second, c.Scan.Interval)
	assert.Equal(t, 10, c.Scan.TopN)
	assert.Equal(t, 0.5, c.Scan.PriceChangePercent)
	assert.True(t, c.Exchanges.Binance.Enabled)
	assert.False(t, c.Sinks.Redis.Enabled)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARBSCAN_LOG_LEVEL", "debug")
	t.Setenv("ARBSCAN_SCAN_INTERVAL", "750ms")
	t.Setenv("ARBSCAN_MIN_SPREAD_PERCENT", "0.25")
	t.Setenv("ARBSCAN_ADMIN_ALLOW_CIDRS", "10.0.0.0/8, 192.168.0.0/16")

	c, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, 750*time.Millisecond, c.Scan.Interval)
	assert.Equal(t, 0.25, c.Scan.MinSpreadPercent)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, c.Server.AdminAllowCIDRs)
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, `
scan:
  interval: 5s
  min_profit_percent: 0.2
  fee_rates:
    okx: 0.0008
  min_volume:
    BTC-USDT: 250000
exchanges:
  huobi:
    enabled: false
sinks:
  file:
    enabled: true
    path: /tmp/report.json
`)
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.Scan.Interval)
	assert.Equal(t, 0.2, c.Scan.MinProfitPercent)
	assert.Equal(t, 0.0008, c.Scan.FeeRates["okx"])
	assert.Equal(t, 0.001, c.Scan.FeeRates["binance"])
	assert.Equal(t, 250000.0, c.Scan.MinVolume["BTC-USDT"])
	assert.False(t, c.Exchanges.Huobi.Enabled)
	assert.Equal(t, "https://api.huobi.pro", c.Exchanges.Huobi.BaseURL)
	assert.True(t, c.Sinks.File.Enabled)
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad yaml", "scan: [1, 2"},
		{"negative spread", "scan:\n  min_spread_percent: -1\n"},
		{"fee rate of one", "scan:\n  fee_rates:\n    binance: 1\n"},
		{"zero trade fraction", "scan:\n  max_trade_fraction: 0\n"},
		{"unknown log level", "logging:\n  level: loud\n"},
		{"bad cidr", "server:\n  admin_allow_cidrs: [\"10.0.0.0\"]\n"},
		{"redis without addr", "sinks:\n  redis:\n    enabled: true\n    addr: \"\"\n"},
		{"postgres without dsn", "sinks:\n  postgres:\n    enabled: true\n"},
		{"exchange without url", "exchanges:\n  kraken:\n    base_url: \"\"\n"},
		{"no exchange enabled", "exchanges:\n  binance: {enabled: false}\n  huobi: {enabled: false}\n  kraken: {enabled: false}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestEnvOverrides_BadNumber(t *testing.T) {
	t.Setenv("ARBSCAN_START_AMOUNT", "lots")
	_, err := LoadFile("")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV(" a,,b ,"))
	assert.Nil(t, splitCSV(""))
}

func TestLoadFile_ShippedExample(t *testing.T) {
	c, err := LoadFile(filepath.Join("..", "..", "configs", "config.example.yaml"))
	require.NoError(t, err)
	assert.False(t, c.Exchanges.Kraken.Enabled)
	assert.True(t, c.Sinks.File.Enabled)
	assert.Equal(t, 1000000.0, c.Scan.MinVolume["BTC-USDT"])
}
