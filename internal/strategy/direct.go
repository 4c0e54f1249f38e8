package strategy

import (
	"math"
	"time"

	"github.com/google/uuid"

	"arbscan/internal/market"
)

// DirectStats describes one direct scan.
type DirectStats struct {
	PairsCompared  int `json:"pairs_compared"`
	VolumeRejected int `json:"volume_rejected"`
	Found          int `json:"found"`
}

// FindDirect compares every instrument quoted on at least two exchanges,
// pairwise across exchanges, and returns the spreads that clear the spread
// threshold and stay profitable after both exchanges' fees.
func FindDirect(snap market.Snapshot, p Params) ([]DirectOpportunity, DirectStats) {
	var (
		out []DirectOpportunity
		st  DirectStats
	)
	exchanges := snap.Exchanges()
	for i, exA := range exchanges {
		for _, exB := range exchanges[i+1:] {
			for _, inst := range snap.Instruments(exA) {
				qb, ok := snap.Quote(exB, inst)
				if !ok {
					continue
				}
				qa := snap.Quotes[exA][inst]
				if !qa.Valid() || !qb.Valid() {
					continue
				}
				qa.Exchange, qa.Instrument = exA, inst
				qb.Exchange, qb.Instrument = exB, inst
				st.PairsCompared++
				minVol := p.minVolume(inst)
				if qa.VolumeQuote < minVol || qb.VolumeQuote < minVol {
					st.VolumeRejected++
					continue
				}
				if opp, ok := evalDirect(qa, qb, p, snap.Timestamp); ok {
					out = append(out, opp)
				}
			}
		}
	}
	st.Found = len(out)
	return out, st
}

func evalDirect(a, b market.Quote, p Params, fallback time.Time) (DirectOpportunity, bool) {
	spread, avg, pct := spreadPercent(a.Price, b.Price)
	if spread == 0 || pct < p.MinSpreadPercent {
		return DirectOpportunity{}, false
	}
	maxTrade := math.Min(math.Min(a.VolumeQuote*p.MaxTradeFraction, b.VolumeQuote*p.MaxTradeFraction), p.MaxTradeAbsolute)
	if !(maxTrade > 0) {
		return DirectOpportunity{}, false
	}
	units := maxTrade / avg
	gross := spread * units
	fees := DirectFees{
		A: maxTrade * p.feeRate(a.Exchange),
		B: maxTrade * p.feeRate(b.Exchange),
	}
	fees.Total = fees.A + fees.B
	net := gross - fees.Total
	if net <= 0 {
		return DirectOpportunity{}, false
	}

	dir := a.Exchange + "->" + b.Exchange
	if b.Price < a.Price {
		dir = b.Exchange + "->" + a.Exchange
	}
	return DirectOpportunity{
		ID:             uuid.NewString(),
		Strategy:       KindDirect,
		Instrument:     a.Instrument,
		ExchangeA:      a.Exchange,
		ExchangeB:      b.Exchange,
		PriceA:         a.Price,
		PriceB:         b.Price,
		SpreadPercent:  pct,
		Direction:      dir,
		MaxTradeVolume: maxTrade,
		Units:          units,
		GrossProfit:    gross,
		Fees:           fees,
		NetProfit:      net,
		ROI:            net / maxTrade * 100,
		Timestamp:      latest(fallback, a.ObservedAt, b.ObservedAt),
	}, true
}
