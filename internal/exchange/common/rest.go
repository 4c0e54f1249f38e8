package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"arbscan/internal/infra/breaker"
	"arbscan/internal/infra/metrics"
	"arbscan/internal/infra/network"
)

// ErrStatus wraps non-2xx responses.
var ErrStatus = errors.New("unexpected status")

// maxBody caps a ticker response; the largest full-market lists are a few MB.
const maxBody = 32 << 20

// RESTClient issues rate limited GETs against one exchange base URL behind a
// circuit breaker.
type RESTClient struct {
	Exchange string
	BaseURL  string
	HTTP     *http.Client
	Limiter  *network.HostLimiter
	Breaker  *breaker.Breaker
	Now      func() time.Time
}

func NewRESTClient(exchange, baseURL string, rps float64, timeout time.Duration) *RESTClient {
	return &RESTClient{
		Exchange: exchange,
		BaseURL:  baseURL,
		HTTP:     network.NewHTTPClient(timeout),
		Limiter:  network.NewHostLimiter(rps, 1),
		Breaker: breaker.New(exchange, breaker.Settings{OnStateChange: func(name, _, to string) {
			v := 0.0
			if to == "open" {
				v = 1
			}
			metrics.BreakerState.WithLabelValues(name).Set(v)
		}}),
		Now: time.Now,
	}
}

// Get fetches path with query and returns the body with the time the
// response arrived.
func (c *RESTClient) Get(ctx context.Context, path string, query url.Values) ([]byte, time.Time, error) {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	host := c.BaseURL
	if pu, err := url.Parse(c.BaseURL); err == nil && pu.Host != "" {
		host = pu.Host
	}
	if err := c.Limiter.Wait(ctx, host); err != nil {
		return nil, time.Time{}, fmt.Errorf("%s: rate limit wait: %w", c.Exchange, err)
	}

	start := time.Now()
	v, err := c.Breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode == http.StatusTooManyRequests {
			c.Limiter.Slowdown(host)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, path)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBody))
	})
	metrics.FetchLatencyMs.WithLabelValues(c.Exchange).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%s: GET %s: %w", c.Exchange, path, err)
	}
	return v.([]byte), c.Now(), nil
}
