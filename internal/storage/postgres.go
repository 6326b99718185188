package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS console_kv (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	expires_at TIMESTAMPTZ NULL
)`

// Postgres keeps local state in a single key/value table.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	p := NewPostgresFromDB(db)
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func NewPostgresFromDB(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("storage: create console_kv: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.GetContext(ctx, &value,
		`SELECT value FROM console_kv WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: select %s: %w", key, err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO console_kv (key, value, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("storage: upsert %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := p.db.ExecContext(ctx, `DELETE FROM console_kv WHERE key = ANY($1)`, pq.Array(keys)); err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
