package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"arbscan/internal/config"
	"arbscan/internal/exchange/binance"
	"arbscan/internal/exchange/common"
	"arbscan/internal/exchange/huobi"
	"arbscan/internal/exchange/kraken"
	"arbscan/internal/infra/breaker"
	"arbscan/internal/infra/log"
	"arbscan/internal/infra/metrics"
	"arbscan/internal/market"
)

// ErrNoMarketData is returned when every exchange failed in a pass.
var ErrNoMarketData = errors.New("no exchange returned market data")

// FromConfig builds an adapter for every enabled exchange, in a fixed order.
func FromConfig(cfg config.Config, syms *market.Symbols) []common.ExchangeAdapter {
	var out []common.ExchangeAdapter
	if e := cfg.Exchanges.Binance; e.Enabled {
		out = append(out, binance.New(e, syms))
	}
	if e := cfg.Exchanges.Huobi; e.Enabled {
		out = append(out, huobi.New(e, syms))
	}
	if e := cfg.Exchanges.Kraken; e.Enabled {
		out = append(out, kraken.New(e, syms))
	}
	return out
}

// Collector assembles one snapshot per call from all adapters.
type Collector struct {
	adapters []common.ExchangeAdapter
	logger   log.Logger
	now      func() time.Time
}

func NewCollector(adapters []common.ExchangeAdapter, logger log.Logger) *Collector {
	return &Collector{adapters: adapters, logger: log.Component(logger, "collector"), now: time.Now}
}

type result struct {
	dec market.Decoded
	err error
}

// Collect fetches and normalizes every exchange concurrently. An exchange
// whose fetch or payload fails is left out of the snapshot for this pass;
// the others are unaffected. The error is non-nil only when none succeeded.
func (c *Collector) Collect(ctx context.Context) (market.Snapshot, error) {
	results := make([]result, len(c.adapters))
	var g errgroup.Group
	for i, a := range c.adapters {
		g.Go(func() error {
			p, err := a.Fetch(ctx)
			if err != nil {
				results[i].err = err
				return nil
			}
			results[i].dec, results[i].err = a.Normalize(p)
			return nil
		})
	}
	_ = g.Wait()

	snap := market.NewSnapshot(c.now().UTC())
	var errs []error
	for i, a := range c.adapters {
		name, r := a.Name(), results[i]
		if r.err != nil {
			metrics.FetchErrorsTotal.WithLabelValues(name, reason(r.err)).Inc()
			c.logger.Warn().Err(r.err).Str("exchange", name).Msg("exchange excluded from pass")
			errs = append(errs, r.err)
			continue
		}
		if r.dec.Dropped > 0 {
			metrics.DroppedRecordsTotal.WithLabelValues(name).Add(float64(r.dec.Dropped))
			c.logger.Debug().Str("exchange", name).Int("dropped", r.dec.Dropped).Msg("invalid ticker records dropped")
		}
		metrics.SnapshotQuotes.WithLabelValues(name).Set(float64(len(r.dec.Quotes)))
		snap.Add(name, r.dec.Quotes)
	}
	if len(c.adapters) > 0 && len(errs) == len(c.adapters) {
		if ctx.Err() != nil {
			return snap, ctx.Err()
		}
		return snap, fmt.Errorf("%w: %w", ErrNoMarketData, errors.Join(errs...))
	}
	return snap, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, market.ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, breaker.ErrOpen):
		return "breaker_open"
	case errors.Is(err, common.ErrStatus):
		return "status"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}
