// Package postgres appends every ranked opportunity of a report to a table.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"arbscan/internal/strategy"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Sink struct {
	db    execer
	table string
}

// Connect opens a pool for dsn and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// New returns a sink writing to table, which may be schema qualified.
func New(db execer, table string) *Sink {
	return &Sink{db: db, table: pgx.Identifier(strings.Split(table, ".")).Sanitize()}
}

func (s *Sink) Name() string { return "postgres" }

func (s *Sink) EnsureSchema(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
	id          TEXT PRIMARY KEY,
	kind        TEXT NOT NULL,
	sort_key    TEXT NOT NULL,
	net_gain    DOUBLE PRECISION NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	report_at   TIMESTAMPTZ NOT NULL,
	payload     JSONB NOT NULL
)`
	if _, err := s.db.Exec(ctx, q); err != nil {
		return fmt.Errorf("postgres: create %s: %w", s.table, err)
	}
	return nil
}

// Publish inserts the top opportunities of r. Rows already stored under the
// same opportunity ID are left untouched.
func (s *Sink) Publish(ctx context.Context, r strategy.Report) error {
	q := `INSERT INTO ` + s.table + ` (id, kind, sort_key, net_gain, observed_at, report_at, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`
	for _, o := range r.Top {
		payload, err := json.Marshal(o)
		if err != nil {
			return fmt.Errorf("postgres: encode %s: %w", o.SortKey(), err)
		}
		if _, err := s.db.Exec(ctx, q, opportunityID(o), string(o.Kind()), o.SortKey(), o.NetGain(), o.ObservedAt(), r.GeneratedAt, payload); err != nil {
			return fmt.Errorf("postgres: insert %s: %w", o.SortKey(), err)
		}
	}
	return nil
}

func opportunityID(o strategy.Opportunity) string {
	switch v := o.(type) {
	case strategy.DirectOpportunity:
		return v.ID
	case strategy.TriangularOpportunity:
		return v.ID
	}
	return o.SortKey()
}
