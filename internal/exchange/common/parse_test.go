package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbscan/internal/market"
)

var at = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuildQuotes(t *testing.T) {
	syms := market.NewSymbols(nil, market.DefaultAliases)
	records := []Record{
		{Symbol: "BTCUSDT", Price: "50000.5", Bid: "50000", Ask: "50001", Volume: "1000000"},
		{Symbol: "ethbtc", Price: "0.06", Bid: "0.0599", Ask: "0.0601", Volume: "200", BaseVolume: true},
		{Symbol: "XBT/EUR", Price: "45000", Bid: "44990", Ask: "45010", Volume: "0"},
	}
	dec := BuildQuotes("binance", records, syms, at)
	require.Len(t, dec.Quotes, 3)
	assert.Zero(t, dec.Dropped)

	btc := dec.Quotes["BTC-USDT"]
	assert.Equal(t, "binance", btc.Exchange)
	assert.Equal(t, 50000.5, btc.Price)
	assert.Equal(t, 50000.0, btc.Bid)
	assert.Equal(t, 50001.0, btc.Ask)
	assert.Equal(t, 1e6, btc.VolumeQuote)
	assert.Equal(t, at, btc.ObservedAt)

	// 200 ETH at 0.06 BTC
	assert.Equal(t, 12.0, dec.Quotes["ETH-BTC"].VolumeQuote)
	assert.Contains(t, dec.Quotes, "BTC-EUR")
}

func TestBuildQuotes_DropsBadRecords(t *testing.T) {
	syms := market.NewSymbols(nil, nil)
	good := Record{Symbol: "BTCUSDT", Price: "50000", Bid: "49999", Ask: "50001", Volume: "10"}
	tests := []struct {
		name string
		mod  func(r *Record)
	}{
		{"zero price", func(r *Record) { r.Price = "0" }},
		{"negative bid", func(r *Record) { r.Bid = "-1" }},
		{"non-numeric ask", func(r *Record) { r.Ask = "n/a" }},
		{"negative volume", func(r *Record) { r.Volume = "-3" }},
		{"missing volume", func(r *Record) { r.Volume = "" }},
		{"missing symbol", func(r *Record) { r.Symbol = "" }},
		{"unknown quote asset", func(r *Record) { r.Symbol = "BTCXYZ" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := good
			tt.mod(&bad)
			other := good
			other.Symbol = "ETHUSDT"
			dec := BuildQuotes("x", []Record{bad, other}, syms, at)
			assert.Equal(t, 1, dec.Dropped)
			assert.Len(t, dec.Quotes, 1)
			assert.Contains(t, dec.Quotes, "ETH-USDT")
		})
	}
}

func TestBuildQuotes_DuplicateInstrumentKeepsFirst(t *testing.T) {
	syms := market.NewSymbols(nil, market.DefaultAliases)
	dec := BuildQuotes("kraken", []Record{
		{Symbol: "XBTUSD", Price: "50000", Bid: "49999", Ask: "50001", Volume: "1"},
		{Symbol: "BTC/USD", Price: "1", Bid: "1", Ask: "1", Volume: "1"},
	}, syms, at)
	assert.Equal(t, 1, dec.Dropped)
	assert.Equal(t, 50000.0, dec.Quotes["BTC-USD"].Price)
}

func TestPayload_ObservedAt(t *testing.T) {
	p := Payload{FetchedAt: at}
	assert.Equal(t, at, p.ObservedAt())
	p.ServerTime = at.Add(-time.Second)
	assert.Equal(t, at.Add(-time.Second), p.ObservedAt())
}
