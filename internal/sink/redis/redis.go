// Package redis stores the latest report under a key and announces it on a
// pub/sub channel.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"arbscan/internal/sink"
	"arbscan/internal/strategy"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Key      string
	Channel  string
	TTL      time.Duration
}

type Sink struct {
	client  goredis.Cmdable
	key     string
	channel string
	ttl     time.Duration
}

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, o Options) (*Sink, *goredis.Client, error) {
	c := goredis.NewClient(&goredis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("redis: ping: %w", err)
	}
	return New(c, o), c, nil
}

func New(c goredis.Cmdable, o Options) *Sink {
	return &Sink{client: c, key: o.Key, channel: o.Channel, ttl: o.TTL}
}

func (s *Sink) Name() string { return "redis" }

// Publish overwrites the key with the report document and, when a channel is
// configured, publishes the same document to it.
func (s *Sink) Publish(ctx context.Context, r strategy.Report) error {
	b, err := sink.Encode(r)
	if err != nil {
		return fmt.Errorf("redis: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", s.key, err)
	}
	if s.channel == "" {
		return nil
	}
	if err := s.client.Publish(ctx, s.channel, b).Err(); err != nil {
		return fmt.Errorf("redis: publish %s: %w", s.channel, err)
	}
	return nil
}
