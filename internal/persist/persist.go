// Package persist provides durable storage for the district state snapshot.
//
// This package is internal to districtboard and implements the persistence
// side channel that lets district state survive process restarts. Two
// backends are provided behind the [Adapter] interface:
//
//   - [FileAdapter]: A human-readable JSON file, rewritten whole on every save
//   - [RedisAdapter]: A single JSON document under one Redis key
//
// Persistence is best-effort by design. A save failure is reported to the
// caller but the in-memory store remains authoritative; a missing, corrupt,
// or partial durable copy is reported as [ErrNoSnapshot] and the caller
// falls back to the all-normal default. No error from this package is ever
// process-fatal.
package persist

import (
	"context"
	"errors"

	"github.com/districtmap/districtboard/internal/store"
)

// ErrNoSnapshot indicates that no usable durable snapshot exists. A corrupt
// or unparseable copy is reported the same way as a missing one: the caller
// materializes the default state either way, never a partial one.
var ErrNoSnapshot = errors.New("no durable snapshot")

// Adapter loads and saves the full district state snapshot.
//
// Implementations must treat the snapshot as one document: Load either
// returns a complete parsed snapshot or fails, and Save overwrites the
// previous copy entirely. Adapters do not validate snapshot contents against
// the known-district set; the store does that on restore.
type Adapter interface {
	// Load reads the durable snapshot. Returns an error wrapping
	// ErrNoSnapshot if the copy is missing or cannot be parsed.
	Load(ctx context.Context) (store.Snapshot, error)

	// Save durably writes the entire snapshot, replacing any previous copy.
	// A single best-effort attempt; there is no retry policy.
	Save(ctx context.Context, snap store.Snapshot) error
}
