package kraken

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

const Name = "kraken"

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

func (a *Adapter) Fetch(ctx context.Context) (common.Payload, error) {
	var q url.Values
	if len(a.pairs) > 0 {
		q = url.Values{"pair": {strings.Join(a.pairs, ",")}}
	}
	body, at, err := a.rest.Get(ctx, "/0/public/Ticker", q)
	if err != nil {
		return common.Payload{}, err
	}
	return common.Payload{Body: body, FetchedAt: at}, nil
}

type envelope struct {
	Error  []string                    `json:"error"`
	Result *map[string]json.RawMessage `json:"result"`
}

// a ask, b bid, c last trade, v volume [today, last 24h]
type ticker struct {
	A []string `json:"a"`
	B []string `json:"b"`
	C []string `json:"c"`
	V []string `json:"v"`
}

// Normalize expects {"error":[],"result":{PAIR:{...}}}. The 24h volume is
// in base units and is converted with the last trade price.
func (a *Adapter) Normalize(p common.Payload) (market.Decoded, error) {
	var env envelope
	if err := json.Unmarshal(p.Body, &env); err != nil {
		return market.Decoded{}, fmt.Errorf("%s: %w: %v", Name, market.ErrMalformedPayload, err)
	}
	if len(env.Error) > 0 {
		return market.Decoded{}, fmt.Errorf("%s: %w: %s", Name, market.ErrMalformedPayload, strings.Join(env.Error, "; "))
	}
	if env.Result == nil {
		return market.Decoded{}, fmt.Errorf("%s: %w: no result", Name, market.ErrMalformedPayload)
	}
	records := make([]common.Record, 0, len(*env.Result))
	bad := 0
	for pair, r := range *env.Result {
		var t ticker
		if err := json.Unmarshal(r, &t); err != nil || len(t.A) == 0 || len(t.B) == 0 || len(t.C) == 0 || len(t.V) < 2 {
			bad++
			continue
		}
		records = append(records, common.Record{
			Symbol: pairSymbol(pair), Price: t.C[0], Bid: t.B[0], Ask: t.A[0], Volume: t.V[1], BaseVolume: true,
		})
	}
	dec := common.BuildQuotes(Name, records, a.syms, p.ObservedAt())
	dec.Dropped += bad
	return dec, nil
}

// pairSymbol splits Kraken pair names the symbol table cannot: the legacy
// eight letter form (XXBTZUSD, XETHXXBT) and pairs quoted in XBT.
func pairSymbol(pair string) string {
	p := strings.ToUpper(pair)
	if len(p) == 8 && (p[0] == 'X' || p[0] == 'Z') && (p[4] == 'X' || p[4] == 'Z') {
		return p[1:4] + "/" + p[5:8]
	}
	if len(p) > 3 && strings.HasSuffix(p, "XBT") {
		return p[:len(p)-3] + "/XBT"
	}
	return p
}
