package domain

import "strings"

// PathMatch is a single path search hit.
type PathMatch struct {
	// Path is the matched normalized key.
	Path string

	// Ordinal is the line ordinal of the path's first line.
	Ordinal int

	// Start and End delimit the matched fragment in Path, in bytes.
	Start int
	End   int
}

// MatchSpan returns the byte span of the first case-insensitive
// occurrence of query in key.
func MatchSpan(key, query string) (start, end int, ok bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return 0, 0, false
	}
	i := strings.Index(strings.ToLower(key), strings.ToLower(q))
	if i < 0 {
		return 0, 0, false
	}
	return i, i + len(q), true
}

// SearchMatches runs Search and annotates each hit with its ordinal and
// highlight span.
func (x *PathIndex) SearchMatches(query string, limit int) []PathMatch {
	keys := x.Search(query, limit)
	out := make([]PathMatch, 0, len(keys))
	for _, k := range keys {
		m := PathMatch{Path: k}
		m.Ordinal, _ = x.Lookup(k)
		m.Start, m.End, _ = MatchSpan(k, query)
		out = append(out, m)
	}
	return out
}
