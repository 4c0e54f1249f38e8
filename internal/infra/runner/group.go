package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arbscan/internal/infra/log"
)

// Group tracks long-lived workers such as the scan loop. Each worker reports
// its exit on its own channel; Wait blocks until every worker has returned.
type Group struct {
	Logger log.Logger

	wg sync.WaitGroup
}

// Go starts fn under name. The returned channel yields fn's error, wrapped
// with the worker name, exactly once and is then closed.
func (g *Group) Go(ctx context.Context, name string, fn func(ctx context.Context) error) <-chan error {
	done := make(chan error, 1)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer close(done)
		start := time.Now()
		g.Logger.Debug().Str("worker", name).Msg("worker started")
		err := fn(ctx)
		ev := g.Logger.Debug()
		if err != nil {
			err = fmt.Errorf("%s: %w", name, err)
			ev = g.Logger.Error().Err(err)
		}
		ev.Str("worker", name).Dur("uptime", time.Since(start)).Msg("worker stopped")
		done <- err
	}()
	return done
}

// Wait blocks until every started worker has returned.
func (g *Group) Wait() { g.wg.Wait() }
