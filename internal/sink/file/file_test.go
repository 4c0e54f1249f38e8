package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/strategy"
)

func report() strategy.Report {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := strategy.DirectOpportunity{ID: "d1", Strategy: strategy.KindDirect, Instrument: "BTC-USDT", ExchangeA: "binance", ExchangeB: "huobi", NetProfit: 149, Timestamp: at}
	tr := strategy.TriangularOpportunity{ID: "t1", Strategy: strategy.KindTriangular, RouteID: "USDT-BTC-ETH", Exchange: "binance", NetProfitLoss: 16.9, Timestamp: at}
	top, all := strategy.Rank([]strategy.DirectOpportunity{d}, []strategy.TriangularOpportunity{tr}, 1)
	return strategy.Report{GeneratedAt: at, Top: top, All: all}
}

func TestPublish(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arbitrage_opportunities.json")
	s := New(path)
	require.NoError(t, s.Publish(context.Background(), report()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Timestamp          time.Time        `json:"timestamp"`
		TotalOpportunities int              `json:"totalOpportunities"`
		TopOpportunities   []map[string]any `json:"topOpportunities"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, 2, doc.TotalOpportunities)
	require.Len(t, doc.TopOpportunities, 1)
	assert.Equal(t, "direct", doc.TopOpportunities[0]["strategy"])
	assert.Equal(t, "d1", doc.TopOpportunities[0]["id"])

	// second publish replaces the file and leaves no temp files behind
	require.NoError(t, s.Publish(context.Background(), strategy.Report{GeneratedAt: time.Now()}))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"topOpportunities": []`)
}

func TestPublish_MissingDirectory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope", "report.json"))
	assert.Error(t, s.Publish(context.Background(), report()))
}
