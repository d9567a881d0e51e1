package store

import "errors"

// Validation errors returned for rejected mutation requests. Both are
// client errors: they reject the request before any state change and are
// never fatal.
var (
	// ErrUnknownDistrict rejects a mutation referencing a district outside
	// the known set.
	ErrUnknownDistrict = errors.New("district does not exist")

	// ErrInvalidStatus rejects a mutation whose status is not one of the
	// two permitted values.
	ErrInvalidStatus = errors.New("invalid status value")
)

// Validator checks mutation requests against the known-district set and the
// permitted status values before they reach the store.
//
// Validation is total and side-effect-free: it never mutates anything, and
// every (district, status) pair produces either nil or one of the two
// sentinel errors above.
type Validator struct {
	known map[string]struct{}
}

// NewValidator creates a [Validator] for the given known-district set.
func NewValidator(districts []string) *Validator {
	known := make(map[string]struct{}, len(districts))
	for _, d := range districts {
		known[d] = struct{}{}
	}
	return &Validator{known: known}
}

// Validate reports whether a mutation request may proceed.
//
// Returns ErrUnknownDistrict or ErrInvalidStatus on rejection; the caller
// must then skip the store write, the durable save, and the broadcast.
func (v *Validator) Validate(district, status string) error {
	if _, ok := v.known[district]; !ok {
		return ErrUnknownDistrict
	}
	if !Status(status).Valid() {
		return ErrInvalidStatus
	}
	return nil
}
