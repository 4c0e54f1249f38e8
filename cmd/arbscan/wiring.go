package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"arbscan/internal/api/rest"
	"arbscan/internal/arbitrage"
	"arbscan/internal/config"
	"arbscan/internal/exchange"
	"arbscan/internal/infra/health"
	"arbscan/internal/infra/http/middleware"
	"arbscan/internal/infra/log"
	"arbscan/internal/infra/metrics"
	"arbscan/internal/infra/netutil"
	"arbscan/internal/infra/version"
	"arbscan/internal/market"
	"arbscan/internal/routes"
	"arbscan/internal/sink/file"
	"arbscan/internal/sink/postgres"
	"arbscan/internal/sink/redis"
)

// newRunner wires the collector, the route table and the sinks. The returned
// cleanup closes sink connections.
func newRunner(ctx context.Context, cfg config.Config, logger log.Logger) (*arbitrage.Runner, func(), error) {
	syms := market.NewSymbols(cfg.Scan.QuoteAssets, market.DefaultAliases)
	collector := exchange.NewCollector(exchange.FromConfig(cfg, syms), logger)

	var table []market.Route
	if cfg.Scan.RoutesFile != "" {
		var err error
		if table, err = routes.LoadWith(cfg.Scan.RoutesFile, syms); err != nil {
			return nil, nil, err
		}
	}

	pubs, cleanup, err := newPublishers(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Int("routes", len(table)).Int("sinks", len(pubs)).Msg("scanner configured")
	return arbitrage.NewRunner(cfg.Scan, collector, table, pubs, logger), cleanup, nil
}

func newPublishers(ctx context.Context, cfg config.Config, logger log.Logger) ([]arbitrage.Publisher, func(), error) {
	var (
		pubs    []arbitrage.Publisher
		closers []func()
	)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	sc := cfg.Sinks
	if sc.File.Enabled {
		pubs = append(pubs, file.New(sc.File.Path))
	}
	if sc.Redis.Enabled {
		s, client, err := redis.Dial(ctx, redis.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
			Key:      sc.Redis.Key,
			Channel:  sc.Redis.Channel,
			TTL:      time.Duration(sc.Redis.TTLSeconds) * time.Second,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		pubs = append(pubs, s)
		logger.Info().Str("addr", sc.Redis.Addr).Str("key", sc.Redis.Key).Msg("redis sink ready")
	}
	if sc.Postgres.Enabled {
		pool, err := postgres.Connect(ctx, sc.Postgres.DSN)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		s := postgres.New(pool, sc.Postgres.Table)
		if err := s.EnsureSchema(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		pubs = append(pubs, s)
		logger.Info().Str("table", sc.Postgres.Table).Msg("postgres sink ready")
	}
	return pubs, cleanup, nil
}

// newAdminHandler builds the admin mux. /metrics and pprof are restricted to
// the configured CIDRs.
func newAdminHandler(cfg config.Config, logger log.Logger, reg *prometheus.Registry, latest rest.ReportSource) (http.Handler, error) {
	adminCIDRs, err := netutil.ParseCIDRs(cfg.Server.AdminAllowCIDRs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", middleware.AdminGate(adminCIDRs, metrics.Handler(reg)))
	mux.HandleFunc("/healthz", health.Healthz)
	mux.HandleFunc("/readyz", health.Readyz)
	mux.HandleFunc("/version", version.Handler)
	api := rest.New(latest).Handler()
	mux.Handle("/opportunities", api)
	mux.Handle("/status", api)
	if cfg.Server.Pprof {
		mux.Handle("/debug/pprof/", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Index)))
		mux.Handle("/debug/pprof/cmdline", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Cmdline)))
		mux.Handle("/debug/pprof/profile", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Profile)))
		mux.Handle("/debug/pprof/symbol", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Symbol)))
		mux.Handle("/debug/pprof/trace", middleware.AdminGate(adminCIDRs, http.HandlerFunc(pprof.Trace)))
	}
	return middleware.RequestID(middleware.Logger(logger)(mux)), nil
}

func newServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}
}

func serve(srv *http.Server, logger log.Logger) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("http server error")
	}
}
