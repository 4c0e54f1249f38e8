package common

import (
	"context"
	"time"

	"arbscan/internal/market"
)

// Payload is one raw ticker response. ServerTime is set when the exchange
// reported its own clock for the response and is zero otherwise.
type Payload struct {
	Body       []byte
	FetchedAt  time.Time
	ServerTime time.Time
}

// ObservedAt is the time quotes from this payload are stamped with.
func (p Payload) ObservedAt() time.Time {
	if !p.ServerTime.IsZero() {
		return p.ServerTime
	}
	return p.FetchedAt
}

type MarketDataSource interface {
	Name() string
	Fetch(ctx context.Context) (Payload, error)
}

// PayloadNormalizer turns a raw payload into validated quotes. It returns
// market.ErrMalformedPayload when the top-level structure is wrong; bad
// individual records are dropped and counted instead.
type PayloadNormalizer interface {
	Normalize(p Payload) (market.Decoded, error)
}

// ExchangeAdapter is a source paired with the normalizer for its payloads.
type ExchangeAdapter interface {
	MarketDataSource
	PayloadNormalizer
}
