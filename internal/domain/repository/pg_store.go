package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Roja8626/tech-mock/internal/common"
)

const createCollectionsTable = `CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type pgCollectionStore struct {
	db *sql.DB
}

func NewPgCollectionStore(db *sql.DB) CollectionStore {
	return &pgCollectionStore{db: db}
}

// EnsurePgSchema creates the collections table if it does not exist yet.
func EnsurePgSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("EnsurePgSchema: %w", err)
	}
	return nil
}

func (s *pgCollectionStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM collections WHERE key = $1`
	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCollectionStore.Get: %w", err)
	}
	return value, nil
}

func (s *pgCollectionStore) Set(ctx context.Context, key string, value []byte) error {
	query := `INSERT INTO collections (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("pgCollectionStore.Set: %w", err)
	}
	return nil
}
