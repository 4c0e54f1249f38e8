package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"arbscan/internal/infra/health"
	"arbscan/internal/infra/log"
	"arbscan/internal/infra/metrics"
	"arbscan/internal/infra/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan continuously and serve the admin endpoints",
	Long: `Run the scanner until SIGINT or SIGTERM. Every pass collects a snapshot,
analyzes it and publishes the ranked report to the enabled sinks.

Examples:
  arbscan run
  arbscan run --config configs/config.example.yaml`,
	RunE: runScanner,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScanner(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := log.NewLogger(cfg)
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	registry := metrics.Init(logger)
	scanner, cleanup, err := newRunner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	var shutdown func()
	if cfg.Server.Enabled {
		h, err := newAdminHandler(cfg, logger, registry, scanner)
		if err != nil {
			return err
		}
		srv := newServer(cfg, h)
		go serve(srv, logger)
		shutdown = func() {
			sctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			if err := srv.Shutdown(sctx); err != nil {
				logger.Error().Err(err).Msg("graceful shutdown failed")
			}
		}
		logger.Info().Str("addr", cfg.Server.Addr).Msg("admin server listening")
	}

	g := &runner.Group{Logger: logger}
	workerErrCh := g.Go(ctx, "scanner", scanner.Run)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	var runErr error
	select {
	case <-ctx.Done():
	case s := <-sigCh:
		logger.Info().Str("signal", s.String()).Msg("shutdown signal received")
	case runErr = <-workerErrCh:
	}

	health.Drain()
	cancel()
	g.Wait()
	if shutdown != nil {
		shutdown()
	}
	logger.Info().Msg("shutdown complete")
	return runErr
}
