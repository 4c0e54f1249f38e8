package strategy

import (
	"math"
	"time"

	"github.com/google/uuid"

	"arbscan/internal/market"
)

// TriangularStats describes one triangular scan. Skipped counts routes that
// could not be priced on an exchange because a leg was missing or invalid.
type TriangularStats struct {
	Checked int            `json:"checked"`
	Skipped map[string]int `json:"skipped"`
	Found   int            `json:"found"`
}

// Merge adds the counts of o into s.
func (s *TriangularStats) Merge(o TriangularStats) {
	s.Checked += o.Checked
	s.Found += o.Found
	for ex, n := range o.Skipped {
		if s.Skipped == nil {
			s.Skipped = make(map[string]int)
		}
		s.Skipped[ex] += n
	}
}

// FindTriangular walks every route on every exchange in the snapshot.
func FindTriangular(snap market.Snapshot, routes []market.Route, p Params) ([]TriangularOpportunity, TriangularStats) {
	var (
		out []TriangularOpportunity
		st  TriangularStats
	)
	for _, ex := range snap.Exchanges() {
		opps, s := FindTriangularOn(snap, ex, routes, p)
		out = append(out, opps...)
		st.Merge(s)
	}
	return out, st
}

// FindTriangularOn walks every route on a single exchange.
func FindTriangularOn(snap market.Snapshot, exchange string, routes []market.Route, p Params) ([]TriangularOpportunity, TriangularStats) {
	var (
		out []TriangularOpportunity
		st  TriangularStats
	)
	for _, r := range routes {
		var quotes [3]market.Quote
		missing := false
		for i, leg := range r.Legs {
			q, ok := snap.Quote(exchange, leg.Instrument)
			if !ok || !q.Valid() {
				missing = true
				break
			}
			quotes[i] = q
		}
		if missing {
			if st.Skipped == nil {
				st.Skipped = make(map[string]int)
			}
			st.Skipped[exchange]++
			continue
		}
		st.Checked++
		opp := WalkRoute(exchange, r, quotes, p, snap.Timestamp)
		if opp.ProfitPercent > 0 && opp.ProfitPercent > p.MinProfitPercent && opp.AvailableLiquidity >= p.MinRouteLiquidity {
			out = append(out, opp)
		}
	}
	st.Found = len(out)
	return out, st
}

// WalkRoute converts StartAmount through the three legs of r. BUY legs pay the
// ask and SELL legs receive the bid; the exchange fee is taken after each leg.
// The result is returned whether or not it is profitable.
func WalkRoute(exchange string, r market.Route, quotes [3]market.Quote, p Params, fallback time.Time) TriangularOpportunity {
	fee := p.feeRate(exchange)
	amount := p.StartAmount
	// same conversions without fees, for the gross figure
	bare := p.StartAmount
	liquidity := math.Inf(1)

	var legs [3]LegResult
	for i, leg := range r.Legs {
		q := quotes[i]
		var rate float64
		switch leg.Side {
		case market.Buy:
			rate = q.Ask
			amount = amount / rate
			bare = bare / rate
		case market.Sell:
			rate = q.Bid
			amount = amount * rate
			bare = bare * rate
		}
		amount = applyFee(amount, fee)
		legs[i] = LegResult{Instrument: leg.Instrument, Side: leg.Side, Rate: rate, AmountAfterLeg: amount}
		liquidity = math.Min(liquidity, q.VolumeQuote)
	}

	net := amount - p.StartAmount
	var pct float64
	if p.StartAmount > 0 {
		pct = net / p.StartAmount * 100
	}
	return TriangularOpportunity{
		ID:                 uuid.NewString(),
		Strategy:           KindTriangular,
		Exchange:           exchange,
		RouteID:            r.ID,
		StartCurrency:      r.StartCurrency(),
		Legs:               legs,
		InitialAmount:      p.StartAmount,
		FinalAmount:        amount,
		GrossProfitLoss:    bare - p.StartAmount,
		Fees:               TriangularFees{Rate: fee, Total: bare - amount},
		NetProfitLoss:      net,
		ProfitPercent:      pct,
		AvailableLiquidity: liquidity,
		Timestamp:          latest(fallback, quotes[0].ObservedAt, quotes[1].ObservedAt, quotes[2].ObservedAt),
	}
}
