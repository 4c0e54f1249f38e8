package common

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"arbscan/internal/market"
)

var validate = validator.New()

// Record is one ticker entry as an exchange reports it, numbers still in
// their textual form. BaseVolume marks Volume as base-asset units, which
// BuildQuotes converts to quote units with Price.
type Record struct {
	Symbol     string `validate:"required"`
	Price      string `validate:"required"`
	Bid        string `validate:"required"`
	Ask        string `validate:"required"`
	Volume     string `validate:"required"`
	BaseVolume bool
}

// BuildQuotes converts records into quotes for exchange, all stamped with at.
// Records with a missing field, a non-numeric value, an unknown symbol or a
// value Quote.Valid rejects are dropped and counted, as are repeats of an
// instrument already seen.
func BuildQuotes(exchange string, records []Record, syms *market.Symbols, at time.Time) market.Decoded {
	out := market.Decoded{Quotes: make(map[string]market.Quote, len(records))}
	for _, r := range records {
		q, ok := buildQuote(exchange, r, syms, at)
		if !ok {
			out.Dropped++
			continue
		}
		if _, dup := out.Quotes[q.Instrument]; dup {
			out.Dropped++
			continue
		}
		out.Quotes[q.Instrument] = q
	}
	return out
}

func buildQuote(exchange string, r Record, syms *market.Symbols, at time.Time) (market.Quote, bool) {
	if err := validate.Struct(r); err != nil {
		return market.Quote{}, false
	}
	inst, ok := syms.Canonical(r.Symbol)
	if !ok {
		return market.Quote{}, false
	}
	var nums [4]decimal.Decimal
	for i, s := range []string{r.Price, r.Bid, r.Ask, r.Volume} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return market.Quote{}, false
		}
		nums[i] = d
	}
	price, bid, ask, vol := nums[0], nums[1], nums[2], nums[3]
	if r.BaseVolume {
		vol = vol.Mul(price)
	}
	q := market.Quote{
		Exchange:    exchange,
		Instrument:  inst,
		Price:       price.InexactFloat64(),
		Bid:         bid.InexactFloat64(),
		Ask:         ask.InexactFloat64(),
		VolumeQuote: vol.InexactFloat64(),
		ObservedAt:  at,
	}
	return q, q.Valid()
}
