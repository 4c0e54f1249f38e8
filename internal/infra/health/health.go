package health

import (
	"net/http"
	"sync/atomic"
	"time"
)

var (
	ready    atomic.Bool
	draining atomic.Bool
	lastPass atomic.Int64
)

// SetReady marks readiness state
func SetReady(v bool) { ready.Store(v) }

// Ready returns current readiness
func Ready() bool { return ready.Load() }

// MarkPass records a completed scan pass and marks the process ready unless
// it is draining.
func MarkPass(t time.Time) {
	lastPass.Store(t.UnixMilli())
	if !draining.Load() {
		ready.Store(true)
	}
}

// Drain marks the process not ready for good; passes still in flight no
// longer restore readiness.
func Drain() {
	draining.Store(true)
	ready.Store(false)
}

// LastPass is the time of the latest completed pass, zero before the first.
func LastPass() time.Time {
	ms := lastPass.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// Healthz is a simple liveness probe
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz is 200 once a pass has completed and 503 before that or while
// shutting down.
func Readyz(w http.ResponseWriter, r *http.Request) {
	if Ready() {
		if lp := LastPass(); !lp.IsZero() {
			w.Header().Set("X-Last-Pass", lp.Format(time.RFC3339Nano))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	http.Error(w, "not ready", http.StatusServiceUnavailable)
}
