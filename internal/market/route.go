package market

import (
	"fmt"
	"strings"
)

// Side says how a route leg is entered: BUY spends the quote currency to
// receive the base asset, SELL spends the base asset to receive the quote.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

type PairLeg struct {
	Instrument string `json:"instrument"`
	Side       Side   `json:"side"`
}

// Route is a three-leg cycle on a single exchange that starts and ends in the
// same currency.
type Route struct {
	ID   string     `json:"id"`
	Legs [3]PairLeg `json:"legs"`
}

// StartCurrency is the currency held before the first leg.
func (r Route) StartCurrency() string {
	base, quote, ok := Split(r.Legs[0].Instrument)
	if !ok {
		return ""
	}
	if r.Legs[0].Side == Buy {
		return quote
	}
	return base
}

// Validate checks that every leg spends the currency the previous leg produced
// and that the last leg returns to the starting currency.
func (r Route) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("route has empty id")
	}
	start := r.StartCurrency()
	held := start
	for i, leg := range r.Legs {
		base, quote, ok := Split(leg.Instrument)
		if !ok {
			return fmt.Errorf("route %s leg %d: instrument %q is not BASE-QUOTE", r.ID, i+1, leg.Instrument)
		}
		switch leg.Side {
		case Buy:
			if held != quote {
				return fmt.Errorf("route %s leg %d: BUY %s spends %s but %s is held", r.ID, i+1, leg.Instrument, quote, held)
			}
			held = base
		case Sell:
			if held != base {
				return fmt.Errorf("route %s leg %d: SELL %s spends %s but %s is held", r.ID, i+1, leg.Instrument, base, held)
			}
			held = quote
		default:
			return fmt.Errorf("route %s leg %d: unknown side %q", r.ID, i+1, leg.Side)
		}
	}
	if held != start {
		return fmt.Errorf("route %s does not close: starts in %s, ends in %s", r.ID, start, held)
	}
	return nil
}

// Instruments lists the three leg instruments in order.
func (r Route) Instruments() []string {
	return []string{r.Legs[0].Instrument, r.Legs[1].Instrument, r.Legs[2].Instrument}
}
