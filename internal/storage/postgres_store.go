// internal/storage/postgres_store.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db   *pgxpool.Pool
	name string
}

func NewPostgresStore(db *pgxpool.Pool, name string) *PostgresStore {
	if name == "" {
		name = DefaultKey
	}
	return &PostgresStore{db: db, name: name}
}

// EnsureSchema creates the credential table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS client_credentials (
			name       TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create client_credentials table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context) (string, bool, error) {
	query := `SELECT value FROM client_credentials WHERE name = $1`

	var value string
	err := s.db.QueryRow(ctx, query, s.name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, value string) error {
	query := `
		INSERT INTO client_credentials (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, s.name, value); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context) error {
	query := `DELETE FROM client_credentials WHERE name = $1`
	if _, err := s.db.Exec(ctx, query, s.name); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
