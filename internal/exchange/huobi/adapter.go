package huobi

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"arbscan/internal/config"
	"arbscan/internal/exchange/common"
	"arbscan/internal/market"
)

const Name = "huobi"

type Adapter struct {
	rest *common.RESTClient
	syms *market.Symbols
}

func New(cfg config.Exchange, syms *market.Symbols) *Adapter {
	return &Adapter{
		rest: common.NewRESTClient(Name, cfg.BaseURL, cfg.RPS, time.Duration(cfg.TimeoutSeconds)*time.Second),
		syms: syms,
	}
}

func (a *Adapter) Name() string { return Name }

func (a *Adapter) Fetch(ctx context.Context) (common.Payload, error) {
	body, at, err := a.rest.Get(ctx, "/market/tickers", nil)
	if err != nil {
		return common.Payload{}, err
	}
	return common.Payload{Body: body, FetchedAt: at}, nil
}

type envelope struct {
	Status string             `json:"status"`
	Ts     int64              `json:"ts"`
	Data   *[]json.RawMessage `json:"data"`
}

type ticker struct {
	Symbol string      `json:"symbol"`
	Close  json.Number `json:"close"`
	Bid    json.Number `json:"bid"`
	Ask    json.Number `json:"ask"`
	Vol    json.Number `json:"vol"`
}

// Normalize expects {"status":"ok","data":[...]}. vol is traded base volume
// and is converted with the close price.
func (a *Adapter) Normalize(p common.Payload) (market.Decoded, error) {
	var env envelope
	if err := json.Unmarshal(p.Body, &env); err != nil {
		return market.Decoded{}, fmt.Errorf("%s: %w: %v", Name, market.ErrMalformedPayload, err)
	}
	if env.Status != "ok" || env.Data == nil {
		return market.Decoded{}, fmt.Errorf("%s: %w: status %q", Name, market.ErrMalformedPayload, env.Status)
	}
	at := p.ObservedAt()
	if env.Ts > 0 {
		at = time.UnixMilli(env.Ts).UTC()
	}
	records := make([]common.Record, 0, len(*env.Data))
	bad := 0
	for _, r := range *env.Data {
		var t ticker
		if err := json.Unmarshal(r, &t); err != nil {
			bad++
			continue
		}
		records = append(records, common.Record{
			Symbol: t.Symbol, Price: t.Close.String(), Bid: t.Bid.String(), Ask: t.Ask.String(),
			Volume: t.Vol.String(), BaseVolume: true,
		})
	}
	dec := common.BuildQuotes(Name, records, a.syms, at)
	dec.Dropped += bad
	return dec, nil
}
