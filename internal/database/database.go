// Package database manages the process-wide Postgres connection pool. The
// pool is established lazily: the first caller triggers the connect,
// concurrent callers join the same in-flight attempt, and every later caller
// reuses the established handle for the remainder of the process lifetime.
// A failed attempt leaves nothing behind, so the next caller retries.
package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

// Connector hands out the shared connection pool.
type Connector struct {
	dsn   string
	group singleflight.Group

	mu   sync.RWMutex
	pool *pgxpool.Pool
}

// NewConnector creates a Connector for the given DSN without connecting.
func NewConnector(dsn string) *Connector {
	return &Connector{dsn: dsn}
}

// Acquire returns the shared pool, establishing and verifying it on first
// use. The singleflight group is the initialization gate: at most one
// connect attempt is in flight at a time.
func (c *Connector) Acquire(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.RLock()
	pool := c.pool
	c.mu.RUnlock()
	if pool != nil {
		return pool, nil
	}

	v, err, _ := c.group.Do("connect", func() (any, error) {
		// Re-check under the gate: a caller queued behind a successful
		// attempt must not connect again.
		c.mu.RLock()
		existing := c.pool
		c.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		p, err := pgxpool.New(ctx, c.dsn)
		if err != nil {
			return nil, fmt.Errorf("create pool: %w", err)
		}

		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}

		c.mu.Lock()
		c.pool = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*pgxpool.Pool), nil
}

// Close releases the pool if it was ever established.
func (c *Connector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}
