// Package routes loads the triangular route table.
package routes

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"arbscan/internal/config"
	"arbscan/internal/market"
)

type fileLeg struct {
	Instrument string `yaml:"instrument"`
	Side       string `yaml:"side"`
}

type fileRoute struct {
	ID   string    `yaml:"id"`
	Legs []fileLeg `yaml:"legs"`
}

type file struct {
	LastUpdated string      `yaml:"last_updated"`
	Routes      []fileRoute `yaml:"routes"`
}

// Load reads a route file with the default symbol rules. JSON files are
// accepted as well since YAML is a superset of JSON.
func Load(path string) ([]market.Route, error) {
	return LoadWith(path, nil)
}

// LoadWith is Load with the symbol rules the normalizers use, so leg
// instruments match snapshot keys.
func LoadWith(path string, syms *market.Symbols) ([]market.Route, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: routes: %v", config.ErrConfiguration, err)
	}
	return ParseWith(b, syms)
}

func Parse(b []byte) ([]market.Route, error) { return ParseWith(b, nil) }

// ParseWith decodes and validates a route table. Leg instruments are
// canonicalized with syms (default rules when nil), so XBT-USDT and BTCUSDT
// both become BTC-USDT. Any malformed or non-closing route fails the whole
// table with config.ErrConfiguration.
func ParseWith(b []byte, syms *market.Symbols) ([]market.Route, error) {
	if syms == nil {
		syms = market.NewSymbols(nil, market.DefaultAliases)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: routes: %v", config.ErrConfiguration, err)
	}
	out := make([]market.Route, 0, len(f.Routes))
	seen := make(map[string]bool, len(f.Routes))
	for i, fr := range f.Routes {
		r, err := toRoute(fr, syms)
		if err == nil {
			err = r.Validate()
		}
		if err != nil {
			return nil, fmt.Errorf("%w: routes[%d]: %v", config.ErrConfiguration, i, err)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: routes[%d]: duplicate id %s", config.ErrConfiguration, i, r.ID)
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

func toRoute(fr fileRoute, syms *market.Symbols) (market.Route, error) {
	r := market.Route{ID: strings.TrimSpace(fr.ID)}
	if len(fr.Legs) != 3 {
		return r, fmt.Errorf("route %q has %d legs, want 3", r.ID, len(fr.Legs))
	}
	for i, l := range fr.Legs {
		side, err := market.ParseSide(l.Side)
		if err != nil {
			return r, fmt.Errorf("route %q leg %d: %v", r.ID, i+1, err)
		}
		inst, ok := syms.Canonical(l.Instrument)
		if !ok {
			return r, fmt.Errorf("route %q leg %d: unrecognized instrument %q", r.ID, i+1, l.Instrument)
		}
		r.Legs[i] = market.PairLeg{Instrument: inst, Side: side}
	}
	return r, nil
}
