package arbitrage

import (
	"context"

	"golang.org/x/sync/errgroup"

	"arbscan/internal/config"
	"arbscan/internal/market"
	"arbscan/internal/strategy"
)

// ParamsFromConfig maps the scan section onto analyzer parameters.
func ParamsFromConfig(s config.Scan) strategy.Params {
	return strategy.Params{
		MinSpreadPercent:  s.MinSpreadPercent,
		MinProfitPercent:  s.MinProfitPercent,
		MinVolume:         s.MinVolume,
		DefaultMinVolume:  s.DefaultMinVolume,
		FeeRates:          s.FeeRates,
		DefaultFeeRate:    s.DefaultFeeRate,
		MaxTradeFraction:  s.MaxTradeFraction,
		MaxTradeAbsolute:  s.MaxTradeAbsolute,
		StartAmount:       s.StartAmount,
		MinRouteLiquidity: s.MinRouteLiquidity,
		TopN:              s.TopN,
	}
}

// Analyze runs the direct analyzer and one triangular walk per exchange
// concurrently over snap, then ranks everything found. snap and routes are
// only read. The error is non-nil only when ctx ends first.
func Analyze(ctx context.Context, snap market.Snapshot, routes []market.Route, p strategy.Params) (strategy.Report, error) {
	if err := ctx.Err(); err != nil {
		return strategy.Report{}, err
	}
	exchanges := snap.Exchanges()
	var (
		direct      []strategy.DirectOpportunity
		directStats strategy.DirectStats
		tri         = make([][]strategy.TriangularOpportunity, len(exchanges))
		triStats    = make([]strategy.TriangularStats, len(exchanges))
	)

	var g errgroup.Group
	g.Go(func() error {
		direct, directStats = strategy.FindDirect(snap, p)
		return nil
	})
	if len(routes) > 0 {
		for i, ex := range exchanges {
			g.Go(func() error {
				tri[i], triStats[i] = strategy.FindTriangularOn(snap, ex, routes, p)
				return nil
			})
		}
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return strategy.Report{}, err
	}

	var (
		triangular []strategy.TriangularOpportunity
		st         strategy.TriangularStats
	)
	for i := range exchanges {
		triangular = append(triangular, tri[i]...)
		st.Merge(triStats[i])
	}
	top, all := strategy.Rank(direct, triangular, p.TopN)
	return strategy.Report{
		GeneratedAt: snap.Timestamp,
		Top:         top,
		All:         all,
		Stats: strategy.Stats{
			Exchanges:  len(exchanges),
			Quotes:     snap.Len(),
			Direct:     directStats,
			Triangular: st,
		},
	}, nil
}
