package strategy

import (
	"cmp"
	"slices"
	"time"
)

// Report is the outcome of one analysis pass. All holds every qualifying
// opportunity best first; Top is its first TopN entries.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Top         []Opportunity `json:"top"`
	All         []Opportunity `json:"all"`
	Stats       Stats         `json:"stats"`
}

type Stats struct {
	Exchanges  int             `json:"exchanges"`
	Quotes     int             `json:"quotes"`
	Direct     DirectStats     `json:"direct"`
	Triangular TriangularStats `json:"triangular"`
}

// Best returns the highest ranked opportunity, if any.
func (r Report) Best() (Opportunity, bool) {
	if len(r.All) == 0 {
		return nil, false
	}
	return r.All[0], true
}

// Rank merges both result lists into one ordering: net gain descending, then
// earliest observation, then sort key. Inputs are not modified.
func Rank(direct []DirectOpportunity, triangular []TriangularOpportunity, topN int) (top, all []Opportunity) {
	all = make([]Opportunity, 0, len(direct)+len(triangular))
	for _, o := range direct {
		all = append(all, o)
	}
	for _, o := range triangular {
		all = append(all, o)
	}
	slices.SortStableFunc(all, compareOpportunities)

	if topN <= 0 {
		topN = DefaultTopN
	}
	n := min(topN, len(all))
	return slices.Clone(all[:n]), all
}

func compareOpportunities(a, b Opportunity) int {
	if c := cmp.Compare(b.NetGain(), a.NetGain()); c != 0 {
		return c
	}
	if c := a.ObservedAt().Compare(b.ObservedAt()); c != 0 {
		return c
	}
	return cmp.Compare(a.SortKey(), b.SortKey())
}
