package network

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter keeps one token bucket per host. A host that answers with
// 429 can be slowed down; its rate halves on each call, never below Floor.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
	Floor    float64
}

func NewHostLimiter(rps float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{limiters: make(map[string]*rate.Limiter), rps: rps, burst: burst, Floor: 0.1}
}

func (l *HostLimiter) get(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		limit := rate.Limit(l.rps)
		if l.rps <= 0 {
			limit = rate.Inf
		}
		lim = rate.NewLimiter(limit, l.burst)
		l.limiters[host] = lim
	}
	return lim
}

// Wait blocks until host may be called or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.get(host).Wait(ctx)
}

func (l *HostLimiter) Allow(host string) bool { return l.get(host).Allow() }

// Slowdown halves the request rate for host.
func (l *HostLimiter) Slowdown(host string) {
	lim := l.get(host)
	cur := float64(lim.Limit())
	if lim.Limit() == rate.Inf {
		return
	}
	next := cur / 2
	if next < l.Floor {
		next = l.Floor
	}
	lim.SetLimit(rate.Limit(next))
}

// Limit returns the current rate for host in requests per second.
func (l *HostLimiter) Limit(host string) float64 { return float64(l.get(host).Limit()) }
