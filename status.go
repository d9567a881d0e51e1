package districtboard

// Status is the state flag of a district.
//
// Status is a closed two-value enum: [StatusNormal] or [StatusWarning].
// Using a string type allows for easy JSON serialization and human-readable
// logging while maintaining type safety through the defined constants.
type Status string

const (
	// StatusNormal indicates the district is in its ordinary state.
	// Districts start in this state and return to it when a warning clears.
	StatusNormal Status = "normal"

	// StatusWarning indicates the district requires attention.
	StatusWarning Status = "warning"
)

// String returns the string representation of the status.
// This implements the fmt.Stringer interface.
func (s Status) String() string {
	return string(s)
}

// District is one named map region with an independently tracked status.
//
// The set of districts is fixed at construction time: it is supplied by an
// external collaborator (typically whatever loads the map geometry) and
// never grows or shrinks while the board is running.
type District struct {
	// ID is the opaque identifier the status store is keyed by.
	ID string

	// Name is the human-readable display name. Empty means the ID is
	// displayed as-is.
	Name string
}

// StatusRecord is the public view of one committed status change.
//
// It is handed to update callbacks registered via [WithUpdateCallback] and
// returned by [Board.SetStatus]. Color is always derived from Status:
// normal maps to "#5698c3" and warning to "#ffc107".
type StatusRecord struct {
	// District is the identifier of the changed district.
	District string

	// Status is the district's new state flag.
	Status Status

	// Color is the display color derived from Status.
	Color string
}
