// Package db contains code for connecting to the database.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/threadsync/threadsync/internal/config"
)

const (
	defaultMaxConns        = 10
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnectTimeout  = 2 * time.Minute
)

// ConnectOption tunes how NewPool connects
type ConnectOption func(*connectConfig)

type connectConfig struct {
	maxElapsed time.Duration
	backOff    backoff.BackOff
}

// WithMaxElapsedTime bounds the total time spent retrying the initial connection
func WithMaxElapsedTime(d time.Duration) ConnectOption {
	return func(c *connectConfig) {
		c.maxElapsed = d
	}
}

// WithBackOff replaces the exponential retry policy
func WithBackOff(b backoff.BackOff) ConnectOption {
	return func(c *connectConfig) {
		c.backOff = b
	}
}

// NewPool creates a PostgreSQL connection pool and waits until the database answers
// a ping, retrying with exponential backoff. Databases started alongside the
// service (compose, kubernetes) are often not ready on the first attempt.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig, opts ...ConnectOption) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}

	cc := &connectConfig{
		maxElapsed: defaultConnectTimeout,
		backOff:    backoff.NewExponentialBackOff(),
	}
	for _, opt := range opts {
		opt(cc)
	}

	connStr, err := cfg.GetConnectionString()
	if err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}
	poolConfig.MaxConns = defaultMaxConns
	poolConfig.MaxConnLifetime = defaultConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("Database not reachable yet", "attempt", attempt, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(cc.backOff),
		backoff.WithMaxElapsedTime(cc.maxElapsed),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection pool created",
		"host", poolConfig.ConnConfig.Host,
		"database", poolConfig.ConnConfig.Database,
		"attempts", attempt)

	return pool, nil
}
