package arbitrage

import (
	"math"
	"sort"

	"arbscan/internal/market"
)

type PriceChange struct {
	Exchange      string  `json:"exchange"`
	Instrument    string  `json:"instrument"`
	Old           float64 `json:"old"`
	New           float64 `json:"new"`
	ChangePercent float64 `json:"change_percent"`
}

// PriceWatcher remembers the last price per exchange and instrument and
// reports moves of at least ThresholdPercent between consecutive snapshots.
// It is not safe for concurrent use; the runner owns it.
type PriceWatcher struct {
	threshold float64
	only      map[string]bool
	last      map[string]map[string]float64
}

// NewPriceWatcher watches the given instruments, or every instrument when
// none are given. A non-positive threshold disables reporting.
func NewPriceWatcher(thresholdPercent float64, instruments []string) *PriceWatcher {
	w := &PriceWatcher{threshold: thresholdPercent, last: make(map[string]map[string]float64)}
	if len(instruments) > 0 {
		w.only = make(map[string]bool, len(instruments))
		for _, inst := range instruments {
			w.only[inst] = true
		}
	}
	return w
}

// Observe records snap and returns the significant moves since the previous
// call, ordered by exchange and instrument. The first call reports nothing.
func (w *PriceWatcher) Observe(snap market.Snapshot) []PriceChange {
	var out []PriceChange
	for ex, qs := range snap.Quotes {
		prev := w.last[ex]
		if prev == nil {
			prev = make(map[string]float64)
			w.last[ex] = prev
		}
		for inst, q := range qs {
			if w.only != nil && !w.only[inst] {
				continue
			}
			old, seen := prev[inst]
			prev[inst] = q.Price
			if !seen || w.threshold <= 0 || old <= 0 {
				continue
			}
			pct := (q.Price - old) / old * 100
			if math.Abs(pct) >= w.threshold {
				out = append(out, PriceChange{Exchange: ex, Instrument: inst, Old: old, New: q.Price, ChangePercent: pct})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exchange != out[j].Exchange {
			return out[i].Exchange < out[j].Exchange
		}
		return out[i].Instrument < out[j].Instrument
	})
	return out
}
