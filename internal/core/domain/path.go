package domain

import (
	"strconv"
	"strings"
)

// ItemsMarker is the key suffix for the representative element of an array.
const ItemsMarker = "[]"

// Segment is one step of a Path: a property name or the array-items marker.
type Segment struct {
	Name  string
	Items bool
}

// Prop returns a property segment.
func Prop(name string) Segment { return Segment{Name: name} }

// Items returns the array-items segment.
func Items() Segment { return Segment{Items: true} }

// Path is the ordered address of a field from the document root.
type Path []Segment

// Child returns a copy of p extended with seg. The receiver is never aliased.
func (p Path) Child(seg Segment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Key returns the normalized key: property names joined by ".", with
// "[]" appended to the segment owning array items (e.g. "env[].name").
// A name that is empty or contains key syntax is written double-quoted,
// so a property "a.b" keys as `"a.b"` and never collides with a.b.
func (p Path) Key() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.Items {
			b.WriteString(ItemsMarker)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		if needsKeyQuotes(seg.Name) {
			b.WriteString(strconv.Quote(seg.Name))
		} else {
			b.WriteString(seg.Name)
		}
	}
	return b.String()
}

func needsKeyQuotes(name string) bool {
	return name == "" || strings.ContainsAny(name, `.[]"`)
}

// String implements fmt.Stringer.
func (p Path) String() string { return p.Key() }

// IsEmpty reports whether p addresses the document root.
func (p Path) IsEmpty() bool { return len(p) == 0 }

// Equal reports whether p and o address the same field.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// ParsePath parses a normalized key back into a Path. It is the inverse
// of Key.
func ParsePath(key string) Path {
	key = strings.TrimSpace(key)
	var p Path
	for i := 0; i < len(key); {
		switch {
		case key[i] == '.':
			i++
		case strings.HasPrefix(key[i:], ItemsMarker):
			p = append(p, Items())
			i += len(ItemsMarker)
		case key[i] == '"':
			quoted, err := strconv.QuotedPrefix(key[i:])
			if err != nil {
				// Unterminated quote: the rest is one name.
				return append(p, Prop(key[i+1:]))
			}
			name, _ := strconv.Unquote(quoted)
			p = append(p, Prop(name))
			i += len(quoted)
		default:
			j := i
			for j < len(key) && key[j] != '.' && !strings.HasPrefix(key[j:], ItemsMarker) {
				j++
			}
			p = append(p, Prop(key[i:j]))
			i = j
		}
	}
	return p
}
