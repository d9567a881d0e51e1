package store

// Status is the state flag carried by every district.
//
// Status is a closed two-value enum. There is no "unknown" value: every
// known district always has a concrete status, defaulting to [StatusNormal]
// at first startup.
type Status string

const (
	// StatusNormal indicates the district is in its ordinary state.
	StatusNormal Status = "normal"

	// StatusWarning indicates the district requires attention.
	StatusWarning Status = "warning"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the two permitted status values.
func (s Status) Valid() bool {
	return s == StatusNormal || s == StatusWarning
}

// Display colors derived from the two status values.
const (
	ColorNormal  = "#5698c3"
	ColorWarning = "#ffc107"
)

// ColorFor returns the display color derived from a status.
//
// The mapping is pure and total over the two valid statuses. Invalid
// statuses never reach a store write; the [Validator] rejects them first.
func ColorFor(s Status) string {
	if s == StatusWarning {
		return ColorWarning
	}
	return ColorNormal
}

// Record is the per-district state tracked by the store.
//
// Record is the storage representation, optimized for JSON serialization
// (used by the REST API, the WebSocket protocol, and the durable snapshot).
// Color is always ColorFor(Status); the store maintains this invariant on
// every write.
type Record struct {
	// Status is the district's current state flag.
	Status Status `json:"status"`

	// Color is the display color derived from Status.
	Color string `json:"color"`
}

// Snapshot is the full mapping of every known district to its current
// record, taken at one instant.
type Snapshot map[string]Record

// Clone returns a copy of the snapshot. Mutating the copy does not affect
// the original.
func (s Snapshot) Clone() Snapshot {
	cp := make(Snapshot, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

// Store defines read and write access to district state.
//
// Store implementations must be safe for concurrent access. The key set is
// fixed at construction: Set never inserts, and nothing ever deletes.
type Store interface {
	// Snapshot returns a copy of the full current state. Mutating the
	// returned map does not affect the store.
	Snapshot() Snapshot

	// Get returns the record for one district, or ErrUnknownDistrict.
	Get(district string) (Record, error)

	// Set replaces an existing district's record with the given status and
	// its derived color, returning the new record. Returns
	// ErrUnknownDistrict if the district is not a known key.
	Set(district string, status Status) (Record, error)
}
