package domain

import "strings"

// DefaultSearchLimit caps Search results when no limit is given.
const DefaultSearchLimit = 20

// PathIndex maps normalized path keys to line ordinals and back.
// It is built once per Document and never modified afterwards.
// Keys come from Path.Key, which quotes property names containing "." or
// "[]", so every distinct Path has its own key.
type PathIndex struct {
	keys  []string       // unique keys in document order
	lower []string       // lowercased keys, parallel to keys
	first map[string]int // key -> ordinal of its first line
	owner []int          // line ordinal -> index into keys, or -1
}

// NewPathIndex builds the index for a Line sequence.
// Lines with an empty path are not indexed.
func NewPathIndex(lines []Line) *PathIndex {
	idx := &PathIndex{
		first: make(map[string]int),
		owner: make([]int, len(lines)),
	}
	pos := make(map[string]int)
	last := -1
	for i := range lines {
		if lines[i].Path.IsEmpty() {
			idx.owner[i] = last
			continue
		}
		key := lines[i].Path.Key()
		k, seen := pos[key]
		if !seen {
			k = len(idx.keys)
			pos[key] = k
			idx.keys = append(idx.keys, key)
			idx.lower = append(idx.lower, strings.ToLower(key))
			idx.first[key] = i
		}
		idx.owner[i] = k
		last = k
	}
	return idx
}

// Len returns the number of indexed paths.
func (x *PathIndex) Len() int { return len(x.keys) }

// Paths returns every indexed key in document order.
func (x *PathIndex) Paths() []string {
	out := make([]string, len(x.keys))
	copy(out, x.keys)
	return out
}

// Lookup returns the ordinal of the first line of key.
func (x *PathIndex) Lookup(key string) (int, bool) {
	o, ok := x.first[strings.TrimSpace(key)]
	return o, ok
}

// LookupPath returns the ordinal of the first line of p.
func (x *PathIndex) LookupPath(p Path) (int, bool) {
	return x.Lookup(p.Key())
}

// Search returns the keys containing query, case-insensitively, in
// document order. At most limit keys are returned; limit <= 0 means
// DefaultSearchLimit.
func (x *PathIndex) Search(query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	var out []string
	for i, k := range x.lower {
		if strings.Contains(k, q) {
			out = append(out, x.keys[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Nearest returns the key of the closest line at or before ordinal that
// belongs to a path. Ordinals past the end are clamped to the last line.
func (x *PathIndex) Nearest(ordinal int) (string, bool) {
	if ordinal < 0 || len(x.owner) == 0 {
		return "", false
	}
	if ordinal >= len(x.owner) {
		ordinal = len(x.owner) - 1
	}
	k := x.owner[ordinal]
	if k < 0 {
		return "", false
	}
	return x.keys[k], true
}
