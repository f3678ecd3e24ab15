package repositories

import (
	"context"
)

// DurableStore persists the whole engine state as an opaque blob. The engine
// only ever loads once at boot and saves after committed transactions; a
// failed save is reported, never rolled back into committed in-memory state.
type DurableStore interface {
	// Load returns the last saved snapshot, or (nil, nil) when none exists.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snap *Snapshot) error
	Clear(ctx context.Context) error
}
