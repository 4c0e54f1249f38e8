package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	PassLatencyMs = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scan_pass_latency_ms", Help: "Collect plus analyze latency per pass", Buckets: prometheus.ExponentialBuckets(5, 2, 12)})
	AnalyzeLatencyMs = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "analyze_latency_ms", Help: "Engine latency per pass", Buckets: prometheus.LinearBuckets(1, 10, 20)})
	PassesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "scan_passes_total", Help: "Passes by outcome"}, []string{"outcome"})
	OpportunitiesFound = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "arbitrage_opportunities_found", Help: "Qualifying opportunities by kind"}, []string{"kind"})
	TrianglesCheckedTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "triangles_checked_total", Help: "Total triangles evaluated"})
	RoutesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "routes_skipped_total", Help: "Routes skipped for a missing leg by exchange"}, []string{"exchange"})
	DirectPairsComparedTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "direct_pairs_compared_total", Help: "Instrument pairs compared across exchanges"})
	DirectVolumeRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "direct_volume_rejected_total", Help: "Direct pairs rejected for low volume"})
	DirectSpreadBps = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "direct_spread_bps", Help: "Spread bps per reported direct opportunity", Buckets: prometheus.LinearBuckets(0, 10, 30)})
	TriangleNetBps = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "triangle_net_bps", Help: "Net bps per reported triangle", Buckets: prometheus.LinearBuckets(0, 5, 41)})
	BestNetGain = prometheus.NewGauge(prometheus.GaugeOpts{Name: "best_net_gain", Help: "Net gain of the top ranked opportunity in the last pass"})
	SnapshotQuotes = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "snapshot_quotes", Help: "Valid quotes per exchange in the last snapshot"}, []string{"exchange"})
	DroppedRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "dropped_records_total", Help: "Ticker records dropped during normalization by exchange"}, []string{"exchange"})
	FetchErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "fetch_errors_total", Help: "Failed fetches by exchange and reason"}, []string{"exchange", "reason"})
	FetchLatencyMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "fetch_latency_ms", Help: "REST fetch latency by exchange", Buckets: prometheus.ExponentialBuckets(10, 2, 10)}, []string{"exchange"})
	BreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "breaker_open", Help: "1 while an exchange breaker is open"}, []string{"exchange"})
	SinkErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "sink_errors_total", Help: "Publish failures by sink"}, []string{"sink"})
	PriceChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "price_changes_total", Help: "Significant price moves between passes by exchange"}, []string{"exchange"})
)

func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		PassLatencyMs, AnalyzeLatencyMs, PassesTotal, OpportunitiesFound,
		TrianglesCheckedTotal, RoutesSkippedTotal, DirectPairsComparedTotal, DirectVolumeRejectedTotal,
		DirectSpreadBps, TriangleNetBps, BestNetGain, SnapshotQuotes,
		DroppedRecordsTotal, FetchErrorsTotal, FetchLatencyMs, BreakerState,
		SinkErrorsTotal, PriceChangesTotal,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		_ = reg.Register(c)
	}
	logger.Info().Msg("Prometheus metrics initialized")
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
