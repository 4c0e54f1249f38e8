// Package rest serves the latest scan report over HTTP.
package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"arbscan/internal/infra/health"
	"arbscan/internal/sink"
	"arbscan/internal/strategy"
)

// ReportSource exposes the report of the most recent pass.
type ReportSource interface {
	Latest() (strategy.Report, bool)
}

type Server struct {
	mux    *http.ServeMux
	source ReportSource
}

func New(source ReportSource) *Server {
	s := &Server{mux: http.NewServeMux(), source: source}
	s.mux.HandleFunc("GET /status", s.status)
	s.mux.HandleFunc("GET /opportunities", s.opportunities)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

type statusResponse struct {
	Ready    bool      `json:"ready"`
	LastPass time.Time `json:"last_pass"`
	Found    int       `json:"found"`
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{Ready: health.Ready(), LastPass: health.LastPass()}
	if rep, ok := s.source.Latest(); ok {
		resp.Found = len(rep.All)
	}
	writeJSON(w, http.StatusOK, resp)
}

// opportunities serves the latest report document. kind narrows the list to
// direct or triangular results and limit overrides the top-N cut.
func (s *Server) opportunities(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.source.Latest()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no completed pass yet"})
		return
	}
	q := r.URL.Query()
	kind := strategy.Kind(q.Get("kind"))
	if kind != "" && kind != strategy.KindDirect && kind != strategy.KindTriangular {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "kind must be direct or triangular"})
		return
	}
	limit := len(rep.Top)
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}
	if kind != "" || q.Has("limit") {
		top := make([]strategy.Opportunity, 0, limit)
		for _, o := range rep.All {
			if len(top) == limit {
				break
			}
			if kind == "" || o.Kind() == kind {
				top = append(top, o)
			}
		}
		rep.Top = top
	}
	writeJSON(w, http.StatusOK, sink.NewDocument(rep))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
