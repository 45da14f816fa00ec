package domain

// NavState is the state of a Navigator.
type NavState int

// Navigator states.
const (
	NavIdle NavState = iota
	NavSearching
	NavNavigating
)

// String returns the name of the state.
func (s NavState) String() string {
	switch s {
	case NavIdle:
		return "idle"
	case NavSearching:
		return "searching"
	case NavNavigating:
		return "navigating"
	default:
		return unknownDescription
	}
}

// NavTarget is a requested scroll position.
// Generation ties the target to the Document it was computed against; a
// target from an older generation must never be applied.
type NavTarget struct {
	Generation uint64
	Path       string
	Ordinal    int
}

// ActivePathChange reports the path at the top of the viewport.
type ActivePathChange struct {
	Generation uint64

	// Path is the active path key, empty when no path precedes the viewport.
	Path string
}
