package domain

// LineKind is the semantic kind of a Line.
type LineKind int

// Line kinds.
const (
	LineComment LineKind = iota
	LineKey
	LineValue
	LinePunctuation
	LineTypeBadge
)

// String returns the name of the kind.
func (k LineKind) String() string {
	switch k {
	case LineComment:
		return "comment"
	case LineKey:
		return "key"
	case LineValue:
		return "value"
	case LinePunctuation:
		return "punctuation"
	case LineTypeBadge:
		return "typeBadge"
	default:
		return unknownDescription
	}
}

// Line is one renderable unit of a flattened schema document.
// Lines are produced in pre-order; a Line sequence is owned exclusively by
// the Document that produced it.
type Line struct {
	// Depth is the nesting level, starting at 0.
	Depth int

	// Kind is the semantic kind of the line.
	Kind LineKind

	// Text is the unformatted content: a field name, a literal, a badge
	// label or comment text.
	Text string

	// Path is the field the line belongs to. It is empty for the document
	// title and for punctuation.
	Path Path

	// IsRequired is set on key lines whose name is in the parent's
	// required set.
	IsRequired bool

	// Alt marks lines inside a non-primary combinator branch.
	Alt bool
}
