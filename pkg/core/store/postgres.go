package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresBackend keeps key-value pairs in the kv_store table.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend ensures the kv_store table exists.
func NewPostgresBackend(ctx context.Context, pool *pgxpool.Pool) (*PostgresBackend, error) {
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if _, err := pool.Exec(ctx, kvSchema); err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &PostgresBackend{pool: pool}, nil
}

func (p *PostgresBackend) Read(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (p *PostgresBackend) Write(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := p.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Close() error {
	p.pool.Close()
	return nil
}
