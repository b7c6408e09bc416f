package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/calearner-bot/internal/repository"
)

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// KVStore keeps namespaced records in a single key-value table.
type KVStore struct {
	db *pgxpool.Pool
	tr *Transactor
}

func NewKVStore(db *pgxpool.Pool) *KVStore {
	return &KVStore{db: db, tr: NewTransactor(db)}
}

// EnsureSchema creates the kv_store table if it does not exist.
func (s *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("get %s: %w", key, err)
	}

	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.Exec(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Batch applies sets and removes in one transaction.
func (s *KVStore) Batch(ctx context.Context, sets map[string]string, removes []string) error {
	return s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for k, v := range sets {
			if _, err := tx.Exec(ctx, upsertQuery, k, v); err != nil {
				return fmt.Errorf("batch set %s: %w", k, err)
			}
		}

		if len(removes) > 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM kv_store WHERE key = ANY($1)`, removes); err != nil {
				return fmt.Errorf("batch remove: %w", err)
			}
		}

		return nil
	})
}

const upsertQuery = `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key)
	DO UPDATE SET value = excluded.value, updated_at = NOW()
`
