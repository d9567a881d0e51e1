package store

import "sync"

// MemoryStore is the in-memory implementation of [Store] and the system of
// record while the process is alive.
//
// The key set is established once at construction from the known-district
// enumeration and never changes. All access is guarded by an RWMutex so
// reads proceed concurrently while writes are serialized.
type MemoryStore struct {
	mu      sync.RWMutex
	records Snapshot
}

// NewMemoryStore creates a [MemoryStore] with every given district set to
// [StatusNormal].
func NewMemoryStore(districts []string) *MemoryStore {
	records := make(Snapshot, len(districts))
	for _, d := range districts {
		records[d] = Record{Status: StatusNormal, Color: ColorNormal}
	}
	return &MemoryStore{records: records}
}

// Snapshot returns a copy of the full current state.
func (m *MemoryStore) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.records.Clone()
}

// Get returns the record for one district.
func (m *MemoryStore) Get(district string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[district]
	if !ok {
		return Record{}, ErrUnknownDistrict
	}
	return rec, nil
}

// Set replaces an existing district's record and returns the new value.
//
// The unknown-district check duplicates the [Validator]'s so a caller that
// bypasses validation still cannot grow the key set.
func (m *MemoryStore) Set(district string, status Status) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[district]; !ok {
		return Record{}, ErrUnknownDistrict
	}
	rec := Record{Status: status, Color: ColorFor(status)}
	m.records[district] = rec
	return rec, nil
}

// Restore replaces the store's contents with a previously persisted
// snapshot.
//
// The snapshot is accepted only if its key set exactly matches the store's
// known districts and every status is valid; a partial or corrupt snapshot
// must not partially populate the store. Colors are recomputed from the
// statuses so a hand-edited durable copy cannot break the color invariant.
// Returns false, leaving the store untouched, if the snapshot is unusable.
func (m *MemoryStore) Restore(snap Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(snap) != len(m.records) {
		return false
	}
	restored := make(Snapshot, len(snap))
	for district, rec := range snap {
		if _, ok := m.records[district]; !ok {
			return false
		}
		if !rec.Status.Valid() {
			return false
		}
		restored[district] = Record{Status: rec.Status, Color: ColorFor(rec.Status)}
	}
	m.records = restored
	return true
}
