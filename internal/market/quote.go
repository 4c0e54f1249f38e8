package market

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrMalformedPayload is returned by exchange normalizers when a raw response
// lacks the top-level structure the exchange is expected to send.
var ErrMalformedPayload = errors.New("malformed payload")

// Quote is the normalized top-of-book view of one instrument on one exchange.
// VolumeQuote is always expressed in the instrument's quote currency.
type Quote struct {
	Exchange    string    `json:"exchange"`
	Instrument  string    `json:"instrument"`
	Price       float64   `json:"price"`
	Bid         float64   `json:"bid"`
	Ask         float64   `json:"ask"`
	VolumeQuote float64   `json:"volume_quote"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Valid reports whether q may enter a snapshot.
func (q Quote) Valid() bool {
	for _, v := range []float64{q.Price, q.Bid, q.Ask} {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return q.VolumeQuote >= 0 && !math.IsInf(q.VolumeQuote, 0)
}

// Decoded is the result of normalizing one exchange payload.
type Decoded struct {
	Quotes  map[string]Quote
	Dropped int
}

// Snapshot holds every valid quote gathered for one analysis pass, keyed by
// exchange and then instrument. Analyzers only read it.
type Snapshot struct {
	Quotes    map[string]map[string]Quote
	Timestamp time.Time
}

func NewSnapshot(ts time.Time) Snapshot {
	return Snapshot{Quotes: make(map[string]map[string]Quote), Timestamp: ts}
}

// Add installs the quote map for exchange, replacing anything already there.
// It is meant for whoever assembles the snapshot, before analysis starts.
func (s *Snapshot) Add(exchange string, quotes map[string]Quote) {
	if s.Quotes == nil {
		s.Quotes = make(map[string]map[string]Quote)
	}
	s.Quotes[exchange] = quotes
}

// Exchanges returns exchange names in lexical order.
func (s Snapshot) Exchanges() []string {
	out := make([]string, 0, len(s.Quotes))
	for ex := range s.Quotes {
		out = append(out, ex)
	}
	sort.Strings(out)
	return out
}

// Instruments returns the instruments quoted on exchange in lexical order.
func (s Snapshot) Instruments(exchange string) []string {
	qs := s.Quotes[exchange]
	out := make([]string, 0, len(qs))
	for inst := range qs {
		out = append(out, inst)
	}
	sort.Strings(out)
	return out
}

func (s Snapshot) Quote(exchange, instrument string) (Quote, bool) {
	q, ok := s.Quotes[exchange][instrument]
	return q, ok
}

// Len is the total number of quotes across exchanges.
func (s Snapshot) Len() int {
	n := 0
	for _, qs := range s.Quotes {
		n += len(qs)
	}
	return n
}
