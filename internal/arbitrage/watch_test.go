package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceWatcher(t *testing.T) {
	w := NewPriceWatcher(0.5, nil)
	assert.Empty(t, w.Observe(snapshotOf(
		book("binance", "BTC-USDT", 50000, 50000, 1),
		book("huobi", "BTC-USDT", 50000, 50000, 1),
	)))

	changes := w.Observe(snapshotOf(
		book("binance", "BTC-USDT", 50300, 50300, 1),
		book("huobi", "BTC-USDT", 50100, 50100, 1),
		book("huobi", "ETH-USDT", 3000, 3000, 1),
	))
	require.Len(t, changes, 1)
	assert.Equal(t, "binance", changes[0].Exchange)
	assert.Equal(t, 50000.0, changes[0].Old)
	assert.InDelta(t, 0.6, changes[0].ChangePercent, 1e-9)

	// baseline moved to the latest prices
	changes = w.Observe(snapshotOf(
		book("binance", "BTC-USDT", 50000, 50000, 1),
		book("huobi", "ETH-USDT", 2980, 2980, 1),
	))
	require.Len(t, changes, 2)
	assert.Equal(t, "binance", changes[0].Exchange)
	assert.Less(t, changes[0].ChangePercent, 0.0)
	assert.Equal(t, "ETH-USDT", changes[1].Instrument)
	assert.InDelta(t, -2.0/3, changes[1].ChangePercent, 1e-9)
}

func TestPriceWatcher_InstrumentFilter(t *testing.T) {
	w := NewPriceWatcher(0.5, []string{"ETH-USDT"})
	w.Observe(snapshotOf(book("binance", "BTC-USDT", 100, 100, 1), book("binance", "ETH-USDT", 100, 100, 1)))
	changes := w.Observe(snapshotOf(book("binance", "BTC-USDT", 200, 200, 1), book("binance", "ETH-USDT", 200, 200, 1)))
	require.Len(t, changes, 1)
	assert.Equal(t, "ETH-USDT", changes[0].Instrument)
}

func TestPriceWatcher_Disabled(t *testing.T) {
	w := NewPriceWatcher(0, nil)
	w.Observe(snapshotOf(book("binance", "BTC-USDT", 100, 100, 1)))
	assert.Empty(t, w.Observe(snapshotOf(book("binance", "BTC-USDT", 200, 200, 1))))
}
