package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PgSnapshotStore keeps the engine snapshot as a single JSONB blob in
// Postgres. The engine does not own the storage format beyond marshalling at
// this boundary; the table is one logical slot that each save overwrites.
type PgSnapshotStore struct {
	db *pgxpool.Pool
}

func NewPgSnapshotStore(db *pgxpool.Pool) *PgSnapshotStore {
	return &PgSnapshotStore{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (s *PgSnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS engine_snapshots (
            slot      SMALLINT PRIMARY KEY,
            data      JSONB NOT NULL,
            saved_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `)
	return err
}

func (s *PgSnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM engine_snapshots WHERE slot=1`,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *PgSnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO engine_snapshots (slot, data, saved_at)
        VALUES (1, $1, NOW())
        ON CONFLICT (slot) DO UPDATE
            SET data = EXCLUDED.data, saved_at = NOW()
    `, raw)
	return err
}

func (s *PgSnapshotStore) Clear(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM engine_snapshots WHERE slot=1`)
	return err
}
