package domain

import "sort"

// TokenKind classifies a display token.
type TokenKind int

// Token kinds.
const (
	TokenComment TokenKind = iota
	TokenKey
	TokenValue
	TokenBadge
	TokenRequired
	TokenPunct
)

// String returns the name of the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenComment:
		return "comment"
	case TokenKey:
		return "key"
	case TokenValue:
		return "value"
	case TokenBadge:
		return "badge"
	case TokenRequired:
		return "required"
	case TokenPunct:
		return "punct"
	default:
		return unknownDescription
	}
}

// Token is a styled fragment of a Row.
type Token struct {
	Kind TokenKind
	Text string
}

// Row is one display line: a key row absorbs its value and badge lines.
type Row struct {
	// Ordinal is the index of the first Line the row was built from.
	Ordinal int

	// Depth is the indentation level.
	Depth int

	// Path is the key of the field the row belongs to, if any.
	Path string

	// Alt marks rows inside a non-primary combinator branch.
	Alt bool

	Tokens []Token
}

// Text returns the concatenated token text without indentation.
func (r Row) Text() string {
	n := 0
	for _, t := range r.Tokens {
		n += len(t.Text)
	}
	b := make([]byte, 0, n)
	for _, t := range r.Tokens {
		b = append(b, t.Text...)
	}
	return string(b)
}

// FieldInfo summarizes one path for lookups.
type FieldInfo struct {
	Path        string
	Ordinal     int
	Type        string
	Description string
	Required    bool
	Value       string
}

// RowForOrdinal returns the index of the row that displays the line at
// ordinal. Rows must be in ordinal order, as rendered.
func RowForOrdinal(rows []Row, ordinal int) int {
	i := sort.Search(len(rows), func(i int) bool { return rows[i].Ordinal > ordinal })
	if i == 0 {
		return 0
	}
	return i - 1
}
