package market

import (
	"sort"
	"strings"
)

// DefaultQuoteAssets are the quote currencies recognised when an exchange
// reports symbols without a separator (BTCUSDT, ethbtc).
var DefaultQuoteAssets = []string{"USDT", "USDC", "BUSD", "BTC", "ETH", "BNB", "EUR", "USD"}

// DefaultAliases maps exchange-specific asset codes to their common names.
var DefaultAliases = map[string]string{
	"XBT": "BTC",
	"XDG": "DOGE",
}

// Symbols turns exchange symbols into the canonical BASE-QUOTE form.
type Symbols struct {
	quotes  []string
	aliases map[string]string
}

func NewSymbols(quoteAssets []string, aliases map[string]string) *Symbols {
	if len(quoteAssets) == 0 {
		quoteAssets = DefaultQuoteAssets
	}
	qs := make([]string, 0, len(quoteAssets))
	for _, q := range quoteAssets {
		if q = strings.ToUpper(strings.TrimSpace(q)); q != "" {
			qs = append(qs, q)
		}
	}
	// longest suffix wins: USDT before USD
	sort.SliceStable(qs, func(i, j int) bool {
		if len(qs[i]) != len(qs[j]) {
			return len(qs[i]) > len(qs[j])
		}
		return qs[i] < qs[j]
	})
	al := make(map[string]string, len(aliases))
	for k, v := range aliases {
		al[strings.ToUpper(k)] = strings.ToUpper(v)
	}
	return &Symbols{quotes: qs, aliases: al}
}

// Canonical returns the BASE-QUOTE form of raw. ok is false when no quote
// currency can be identified.
func (s *Symbols) Canonical(raw string) (string, bool) {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	var base, quote string
	if i := strings.IndexAny(sym, "-_/:"); i >= 0 {
		base, quote = sym[:i], sym[i+1:]
	} else {
		for _, q := range s.quotes {
			if len(sym) > len(q) && strings.HasSuffix(sym, q) {
				base, quote = sym[:len(sym)-len(q)], q
				break
			}
		}
	}
	if base == "" || quote == "" {
		return "", false
	}
	return Join(s.alias(base), s.alias(quote)), true
}

func (s *Symbols) alias(asset string) string {
	if a, ok := s.aliases[asset]; ok {
		return a
	}
	return asset
}

// Join builds an instrument name from its two assets.
func Join(base, quote string) string { return base + "-" + quote }

// Split breaks a canonical instrument into base and quote assets.
func Split(instrument string) (base, quote string, ok bool) {
	base, quote, ok = strings.Cut(instrument, "-")
	if !ok || base == "" || quote == "" || strings.Contains(quote, "-") {
		return "", "", false
	}
	return base, quote, true
}
