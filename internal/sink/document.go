// Package sink holds the report document shared by the report sinks.
package sink

import (
	"time"

	"github.com/goccy/go-json"

	"arbscan/internal/strategy"
)

// Document is the persisted form of a report: the top opportunities and the
// total number found in the pass.
type Document struct {
	Timestamp          time.Time              `json:"timestamp"`
	TotalOpportunities int                    `json:"totalOpportunities"`
	TopOpportunities   []strategy.Opportunity `json:"topOpportunities"`
	Stats              strategy.Stats         `json:"stats"`
}

func NewDocument(r strategy.Report) Document {
	top := r.Top
	if top == nil {
		top = []strategy.Opportunity{}
	}
	return Document{
		Timestamp:          r.GeneratedAt,
		TotalOpportunities: len(r.All),
		TopOpportunities:   top,
		Stats:              r.Stats,
	}
}

// Encode renders the document for r as indented JSON.
func Encode(r strategy.Report) ([]byte, error) {
	return json.MarshalIndent(NewDocument(r), "", "  ")
}
