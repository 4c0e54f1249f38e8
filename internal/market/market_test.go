package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolsCanonical(t *testing.T) {
	syms := NewSymbols(nil, DefaultAliases)

	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"BTCUSDT", "BTC-USDT", true},
		{"btcusdt", "BTC-USDT", true},
		{"ethbtc", "ETH-BTC", true},
		{"ETH-USDT", "ETH-USDT", true},
		{"eth_usdc", "ETH-USDC", true},
		{"XBT/USD", "BTC-USD", true},
		{"XBTUSDT", "BTC-USDT", true},
		{"BTCUSD", "BTC-USD", true},
		{"USDT", "", false},
		{"FOOBAR", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := syms.Canonical(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymbolsCustomQuotes(t *testing.T) {
	syms := NewSymbols([]string{"try"}, nil)
	got, ok := syms.Canonical("BTCTRY")
	require.True(t, ok)
	assert.Equal(t, "BTC-TRY", got)

	_, ok = syms.Canonical("BTCUSDT")
	assert.False(t, ok)
}

func TestSplit(t *testing.T) {
	base, quote, ok := Split("ETH-BTC")
	require.True(t, ok)
	assert.Equal(t, "ETH", base)
	assert.Equal(t, "BTC", quote)

	for _, bad := range []string{"ETHBTC", "-BTC", "ETH-", "A-B-C"} {
		_, _, ok := Split(bad)
		assert.False(t, ok, bad)
	}
}

func TestQuoteValid(t *testing.T) {
	good := Quote{Price: 1, Bid: 1, Ask: 1, VolumeQuote: 0}
	assert.True(t, good.Valid())

	bad := []Quote{
		{Price: 0, Bid: 1, Ask: 1},
		{Price: -1, Bid: 1, Ask: 1},
		{Price: 1, Bid: 0, Ask: 1},
		{Price: 1, Bid: 1, Ask: 0},
		{Price: 1, Bid: 1, Ask: 1, VolumeQuote: -1},
		{Price: math.NaN(), Bid: 1, Ask: 1},
		{Price: math.Inf(1), Bid: 1, Ask: 1},
		{Price: 1, Bid: 1, Ask: 1, VolumeQuote: math.Inf(1)},
	}
	for i, q := range bad {
		assert.False(t, q.Valid(), "case %d", i)
	}
}

func TestSnapshotAccessors(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	snap := NewSnapshot(ts)
	snap.Add("kraken", map[string]Quote{"BTC-USD": {Price: 1, Bid: 1, Ask: 1}})
	snap.Add("binance", map[string]Quote{
		"ETH-USDT": {Price: 2, Bid: 2, Ask: 2},
		"BTC-USDT": {Price: 1, Bid: 1, Ask: 1},
	})

	assert.Equal(t, []string{"binance", "kraken"}, snap.Exchanges())
	assert.Equal(t, []string{"BTC-USDT", "ETH-USDT"}, snap.Instruments("binance"))
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, ts, snap.Timestamp)

	q, ok := snap.Quote("binance", "ETH-USDT")
	require.True(t, ok)
	assert.Equal(t, 2.0, q.Price)

	_, ok = snap.Quote("huobi", "ETH-USDT")
	assert.False(t, ok)
}

func TestRouteValidate(t *testing.T) {
	closed := Route{ID: "usdt-btc-eth", Legs: [3]PairLeg{
		{Instrument: "BTC-USDT", Side: Buy},
		{Instrument: "ETH-BTC", Side: Buy},
		{Instrument: "ETH-USDT", Side: Sell},
	}}
	require.NoError(t, closed.Validate())
	assert.Equal(t, "USDT", closed.StartCurrency())

	reverse := Route{ID: "usdt-eth-btc", Legs: [3]PairLeg{
		{Instrument: "ETH-USDT", Side: Buy},
		{Instrument: "ETH-BTC", Side: Sell},
		{Instrument: "BTC-USDT", Side: Sell},
	}}
	require.NoError(t, reverse.Validate())

	fromBase := Route{ID: "btc-start", Legs: [3]PairLeg{
		{Instrument: "BTC-USDT", Side: Sell},
		{Instrument: "ETH-USDT", Side: Buy},
		{Instrument: "ETH-BTC", Side: Sell},
	}}
	require.NoError(t, fromBase.Validate())
	assert.Equal(t, "BTC", fromBase.StartCurrency())

	broken := []Route{
		{ID: "", Legs: closed.Legs},
		{ID: "wrong-side", Legs: [3]PairLeg{
			{Instrument: "BTC-USDT", Side: Buy},
			{Instrument: "ETH-BTC", Side: Sell},
			{Instrument: "ETH-USDT", Side: Sell},
		}},
		{ID: "open", Legs: [3]PairLeg{
			{Instrument: "BTC-USDT", Side: Buy},
			{Instrument: "ETH-BTC", Side: Buy},
			{Instrument: "ETH-EUR", Side: Sell},
		}},
		{ID: "bad-symbol", Legs: [3]PairLeg{
			{Instrument: "BTCUSDT", Side: Buy},
			{Instrument: "ETH-BTC", Side: Buy},
			{Instrument: "ETH-USDT", Side: Sell},
		}},
		{ID: "bad-side", Legs: [3]PairLeg{
			{Instrument: "BTC-USDT", Side: "HOLD"},
			{Instrument: "ETH-BTC", Side: Buy},
			{Instrument: "ETH-USDT", Side: Sell},
		}},
	}
	for _, r := range broken {
		assert.Error(t, r.Validate(), r.ID)
	}
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" buy ")
	require.NoError(t, err)
	assert.Equal(t, Buy, s)
	s, err = ParseSide("SELL")
	require.NoError(t, err)
	assert.Equal(t, Sell, s)
	_, err = ParseSide("short")
	assert.Error(t, err)
}

func TestSnapshotAdd_ZeroValue(t *testing.T) {
	var snap Snapshot
	require.NotPanics(t, func() {
		snap.Add("binance", map[string]Quote{"BTC-USDT": {Price: 1, Bid: 1, Ask: 1}})
	})
	assert.Equal(t, []string{"binance"}, snap.Exchanges())
	assert.Equal(t, 1, snap.Len())
}
