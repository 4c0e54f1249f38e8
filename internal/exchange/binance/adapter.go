package binance

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"arbscan/internal/config"
	"arbscan/internal/exchange/common"
	"arbscan/internal/market"
)

const Name = "binance"

type Adapter struct {
	rest  *common.RESTClient
	syms  *market.Symbols
	pairs []string
}

func New(cfg config.Exchange, syms *market.Symbols) *Adapter {
	return &Adapter{
		rest:  common.NewRESTClient(Name, cfg.BaseURL, cfg.RPS, time.Duration(cfg.TimeoutSeconds)*time.Second),
		syms:  syms,
		pairs: cfg.Pairs,
	}
}

func (a *Adapter) Name() string { return Name }

// Fetch reads the 24h ticker list. The exchange clock from /api/v3/time
// stamps the payload; if that call fails the local fetch time is used.
func (a *Adapter) Fetch(ctx context.Context) (common.Payload, error) {
	var p common.Payload
	if body, _, err := a.rest.Get(ctx, "/api/v3/time", nil); err == nil {
		var st struct {
			ServerTime int64 `json:"serverTime"`
		}
		if json.Unmarshal(body, &st) == nil && st.ServerTime > 0 {
			p.ServerTime = time.UnixMilli(st.ServerTime).UTC()
		}
	}

	var q url.Values
	if len(a.pairs) > 0 {
		q = url.Values{"symbols": {`["` + strings.Join(a.pairs, `","`) + `"]`}}
	}
	body, at, err := a.rest.Get(ctx, "/api/v3/ticker/24hr", q)
	if err != nil {
		return common.Payload{}, err
	}
	p.Body, p.FetchedAt = body, at
	return p, nil
}

type ticker struct {
	Symbol      string `json:"symbol"`
	LastPrice   string `json:"lastPrice"`
	BidPrice    string `json:"bidPrice"`
	AskPrice    string `json:"askPrice"`
	QuoteVolume string `json:"quoteVolume"`
}

// Normalize expects a top-level array of tickers. quoteVolume is already in
// quote currency.
func (a *Adapter) Normalize(p common.Payload) (market.Decoded, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(p.Body, &raw); err != nil || raw == nil {
		return market.Decoded{}, fmt.Errorf("%s: %w: want ticker array", Name, market.ErrMalformedPayload)
	}
	records := make([]common.Record, 0, len(raw))
	bad := 0
	for _, r := range raw {
		var t ticker
		if err := json.Unmarshal(r, &t); err != nil {
			bad++
			continue
		}
		records = append(records, common.Record{
			Symbol: t.Symbol, Price: t.LastPrice, Bid: t.BidPrice, Ask: t.AskPrice, Volume: t.QuoteVolume,
		})
	}
	dec := common.BuildQuotes(Name, records, a.syms, p.ObservedAt())
	dec.Dropped += bad
	return dec, nil
}
