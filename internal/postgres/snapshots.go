package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-storefront/internal/snapshot"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	key        TEXT PRIMARY KEY,
	body       BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// SnapshotStore persists cart and settings snapshots in the snapshots table.
type SnapshotStore struct{ DB *pgxpool.Pool }

func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, schema)
	return errors.Wrap(err, "create snapshots table")
}

func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.DB.QueryRow(ctx, `SELECT body FROM snapshots WHERE key=$1`, key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, snapshot.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get snapshot %s", key)
	}
	return body, nil
}

// Put upserts body under key; the last writer wins.
func (s *SnapshotStore) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO snapshots (key, body, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		key, body)
	return errors.Wrapf(err, "put snapshot %s", key)
}
