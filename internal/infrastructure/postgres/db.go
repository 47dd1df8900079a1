package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PoolConfig holds database connection pool configuration.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig returns sensible pool defaults.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxConns:        25,
		MinConns:        5,
		ConnMaxLifetime: time.Hour,
	}
}

// NewPool creates a PostgreSQL connection pool and verifies connectivity.
func NewPool(ctx context.Context, connString string, cfg *PoolConfig) (*pgxpool.Pool, error) {
	if cfg == nil {
		cfg = DefaultPoolConfig()
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity TEXT,
		price DOUBLE PRECISION,
		description TEXT,
		category TEXT,
		tags TEXT[] NOT NULL DEFAULT '{}',
		language TEXT,
		suggested_price_min DOUBLE PRECISION,
		suggested_price_max DOUBLE PRECISION,
		confidence_score DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		parent_category TEXT,
		keywords TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS price_history (
		id BIGSERIAL PRIMARY KEY,
		product_name TEXT NOT NULL,
		category TEXT,
		price DOUBLE PRECISION,
		location TEXT,
		source TEXT,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_user_id ON products (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_price_history_recorded_at ON price_history (recorded_at)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			logger.Error().Err(err).Msg("failed to apply schema statement")
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	logger.Info().Msg("database schema ensured")
	return nil
}
