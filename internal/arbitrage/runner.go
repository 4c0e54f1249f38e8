package arbitrage

import (
	"context"
	"sync/atomic"
	"time"

	"arbscan/internal/config"
	"arbscan/internal/infra/health"
	"arbscan/internal/infra/log"
	"arbscan/internal/infra/metrics"
	"arbscan/internal/market"
	"arbscan/internal/strategy"
)

// SnapshotSource produces the market snapshot for one pass.
type SnapshotSource interface {
	Collect(ctx context.Context) (market.Snapshot, error)
}

// Publisher receives every report. A failing publisher is logged and does
// not affect the pass or the other publishers.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, r strategy.Report) error
}

// Runner drives collect, analyze and publish passes on a fixed interval.
type Runner struct {
	source     SnapshotSource
	routes     []market.Route
	params     strategy.Params
	interval   time.Duration
	heartbeat  int
	publishers []Publisher
	watcher    *PriceWatcher
	logger     log.Logger

	passes int
	latest atomic.Pointer[strategy.Report]
}

func NewRunner(scan config.Scan, source SnapshotSource, routes []market.Route, publishers []Publisher, logger log.Logger) *Runner {
	return &Runner{
		source:     source,
		routes:     routes,
		params:     ParamsFromConfig(scan),
		interval:   scan.Interval,
		heartbeat:  scan.HeartbeatEvery,
		publishers: publishers,
		watcher:    NewPriceWatcher(scan.PriceChangePercent, scan.WatchInstruments),
		logger:     log.Component(logger, "runner"),
	}
}

// Latest returns the report of the most recent successful pass.
func (r *Runner) Latest() (strategy.Report, bool) {
	rep := r.latest.Load()
	if rep == nil {
		return strategy.Report{}, false
	}
	return *rep, true
}

// Run executes a pass immediately and then on every tick until ctx ends.
// After a failed pass the next one waits twice the interval.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	r.logger.Info().
		Dur("interval", interval).
		Int("routes", len(r.routes)).
		Float64("min_spread_percent", r.params.MinSpreadPercent).
		Float64("min_profit_percent", r.params.MinProfitPercent).
		Msg("scanner started")

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := r.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Error().Err(err).Msg("pass failed")
			t.Reset(2 * interval)
		} else {
			t.Reset(interval)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// RunOnce performs a single pass and publishes its report.
func (r *Runner) RunOnce(ctx context.Context) (strategy.Report, error) {
	start := time.Now()
	snap, err := r.source.Collect(ctx)
	if err != nil {
		metrics.PassesTotal.WithLabelValues("no_data").Inc()
		return strategy.Report{}, err
	}
	r.watch(snap)

	analyzeStart := time.Now()
	rep, err := Analyze(ctx, snap, r.routes, r.params)
	if err != nil {
		metrics.PassesTotal.WithLabelValues("cancelled").Inc()
		return strategy.Report{}, err
	}
	metrics.AnalyzeLatencyMs.Observe(float64(time.Since(analyzeStart).Microseconds()) / 1000)
	r.observe(rep)
	r.latest.Store(&rep)

	for _, p := range r.publishers {
		if err := p.Publish(ctx, rep); err != nil {
			metrics.SinkErrorsTotal.WithLabelValues(p.Name()).Inc()
			r.logger.Error().Err(err).Str("sink", p.Name()).Msg("publish failed")
		}
	}

	metrics.PassesTotal.WithLabelValues("ok").Inc()
	metrics.PassLatencyMs.Observe(float64(time.Since(start).Milliseconds()))
	health.MarkPass(time.Now())
	r.passes++
	if r.heartbeat > 0 && r.passes%r.heartbeat == 0 {
		r.logger.Info().Int("pass", r.passes).Int("exchanges", rep.Stats.Exchanges).Int("quotes", rep.Stats.Quotes).Msg("monitor active")
	}
	return rep, nil
}

func (r *Runner) watch(snap market.Snapshot) {
	for _, c := range r.watcher.Observe(snap) {
		metrics.PriceChangesTotal.WithLabelValues(c.Exchange).Inc()
		r.logger.Info().
			Str("exchange", c.Exchange).
			Str("instrument", c.Instrument).
			Float64("old", c.Old).
			Float64("new", c.New).
			Float64("change_percent", c.ChangePercent).
			Msg("price moved")
	}
}

func (r *Runner) observe(rep strategy.Report) {
	st := rep.Stats
	metrics.DirectPairsComparedTotal.Add(float64(st.Direct.PairsCompared))
	metrics.DirectVolumeRejectedTotal.Add(float64(st.Direct.VolumeRejected))
	metrics.TrianglesCheckedTotal.Add(float64(st.Triangular.Checked))
	for ex, n := range st.Triangular.Skipped {
		metrics.RoutesSkippedTotal.WithLabelValues(ex).Add(float64(n))
	}
	for _, o := range rep.All {
		metrics.OpportunitiesFound.WithLabelValues(string(o.Kind())).Inc()
		switch v := o.(type) {
		case strategy.DirectOpportunity:
			metrics.DirectSpreadBps.Observe(strategy.PercentToBps(v.SpreadPercent))
		case strategy.TriangularOpportunity:
			metrics.TriangleNetBps.Observe(strategy.PercentToBps(v.ProfitPercent))
		}
	}
	if best, ok := rep.Best(); ok {
		metrics.BestNetGain.Set(best.NetGain())
		r.logger.Info().
			Int("direct", st.Direct.Found).
			Int("triangular", st.Triangular.Found).
			Str("best", best.SortKey()).
			Float64("best_net_gain", best.NetGain()).
			Msg("opportunities found")
	} else {
		metrics.BestNetGain.Set(0)
		r.logger.Debug().Int("pairs_compared", st.Direct.PairsCompared).Int("triangles_checked", st.Triangular.Checked).Msg("no opportunities")
	}
}
