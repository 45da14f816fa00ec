package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

// Flatten walks a resolved schema in pre-order and returns its Line
// sequence together with the path index over it. Identical input always
// yields identical output.
func Flatten(root domain.Node) ([]domain.Line, *domain.PathIndex, error) {
	if root == nil {
		return nil, domain.NewPathIndex(nil), nil
	}
	f := &flattener{}
	meta := root.Annotations()
	if meta.Title != "" {
		f.emit(domain.Line{Kind: domain.LineComment, Text: meta.Title})
	}
	f.comments(meta.Description, 0, nil)
	if err := f.slot(root, 0, nil); err != nil {
		return nil, nil, err
	}
	return f.lines, domain.NewPathIndex(f.lines), nil
}

type flattener struct {
	lines []domain.Line
	alt   bool // inside a non-primary combinator branch
}

func (f *flattener) emit(l domain.Line) {
	l.Alt = f.alt
	f.lines = append(f.lines, l)
}

func (f *flattener) comments(text string, depth int, path domain.Path) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, s := range strings.Split(text, "\n") {
		f.emit(domain.Line{Depth: depth, Kind: domain.LineComment, Text: strings.TrimRight(s, " \t\r"), Path: path})
	}
}

// field emits one object property: description, key, badge and content.
func (f *flattener) field(name string, n domain.Node, depth int, path domain.Path, required bool) error {
	f.comments(n.Annotations().Description, depth, path)
	f.emit(domain.Line{Depth: depth, Kind: domain.LineKey, Text: name, Path: path, IsRequired: required})
	badge, err := badge(n)
	if err != nil {
		return err
	}
	f.emit(domain.Line{Depth: depth, Kind: domain.LineTypeBadge, Text: badge, Path: path})
	if isLeaf(n) {
		f.emit(domain.Line{Depth: depth, Kind: domain.LineValue, Text: placeholder(n), Path: path})
		return nil
	}
	return f.slot(n, depth+1, path)
}

// slot emits the content of n as a keyless YAML node indented at depth.
func (f *flattener) slot(n domain.Node, depth int, path domain.Path) error {
	if isLeaf(n) {
		f.emit(domain.Line{Depth: depth, Kind: domain.LineValue, Text: placeholder(n), Path: path})
		return nil
	}
	switch n := n.(type) {
	case *domain.ObjectNode:
		f.defaultComment(n.Default, depth, path)
		for _, p := range n.Properties {
			if err := f.field(p.Name, p.Node, depth, path.Child(domain.Prop(p.Name)), n.IsRequired(p.Name)); err != nil {
				return err
			}
		}
		return f.alternatives(n.Alternatives, depth, path)
	case *domain.ArrayNode:
		f.defaultComment(n.Default, depth, path)
		if !itemsLeaf(n.Items) {
			f.emit(domain.Line{Depth: depth, Kind: domain.LinePunctuation, Text: "-"})
			if err := f.slot(n.Items, depth+1, path.Child(domain.Items())); err != nil {
				return err
			}
		}
		return f.alternatives(n.Alternatives, depth, path)
	case *domain.CombinatorNode:
		return f.branches(n, depth, path)
	default:
		return fmt.Errorf("%w: schema node %T", domain.ErrUnsupportedType, n)
	}
}

// branches emits every alternative of a combinator. Lines of the second
// and later branches are marked Alt.
func (f *flattener) branches(n *domain.CombinatorNode, depth int, path domain.Path) error {
	outer := f.alt
	defer func() { f.alt = outer }()
	for i, b := range n.Branches {
		f.alt = outer || i > 0
		label, err := badge(b)
		if err != nil {
			return err
		}
		f.emit(domain.Line{
			Depth: depth,
			Kind:  domain.LineTypeBadge,
			Text:  fmt.Sprintf("%s %d/%d: %s", n.Op, i+1, len(n.Branches), label),
			Path:  path,
		})
		if err := f.slot(b, depth, path); err != nil {
			return err
		}
	}
	return nil
}

// alternatives emits combinator branches declared next to properties or
// items. All of them are Alt because a branch may repeat a declared key.
func (f *flattener) alternatives(c *domain.CombinatorNode, depth int, path domain.Path) error {
	if c == nil {
		return nil
	}
	outer := f.alt
	f.alt = true
	defer func() { f.alt = outer }()
	return f.branches(c, depth, path)
}

// defaultComment shows a non-empty default of a structured node, which has
// no value line of its own.
func (f *flattener) defaultComment(def *domain.Value, depth int, path domain.Path) {
	if def == nil {
		return
	}
	if (def.Kind == domain.ValueMap && len(def.Fields) == 0) || (def.Kind == domain.ValueList && len(def.Items) == 0) {
		return
	}
	f.emit(domain.Line{Depth: depth, Kind: domain.LineComment, Text: "default: " + def.Literal(), Path: path})
}

// isLeaf reports whether n renders as a single value.
func isLeaf(n domain.Node) bool {
	switch n := n.(type) {
	case *domain.ScalarNode, *domain.CircularNode:
		return true
	case *domain.ObjectNode:
		return len(n.Properties) == 0 && n.Alternatives == nil
	case *domain.ArrayNode:
		return n.Alternatives == nil && itemsLeaf(n.Items)
	default:
		return false
	}
}

// itemsLeaf reports whether array items need no "-" entry of their own.
func itemsLeaf(items domain.Node) bool {
	switch items.(type) {
	case nil:
		return true
	case *domain.ObjectNode, *domain.ArrayNode:
		return isLeaf(items)
	case *domain.CombinatorNode:
		return false
	default:
		return true
	}
}

// placeholder is the value shown for a leaf: its default, else its first
// enum value, else an empty value of its type.
func placeholder(n domain.Node) string {
	m := n.Annotations()
	if m.Default != nil {
		return m.Default.Literal()
	}
	if len(m.Enum) > 0 {
		return m.Enum[0].Literal()
	}
	switch n := n.(type) {
	case *domain.ScalarNode:
		if n.Type == domain.TypeString {
			return `""`
		}
	case *domain.ArrayNode:
		return "[]"
	case *domain.ObjectNode:
		return "{}"
	}
	return "null"
}

// badge returns the type label shown next to a key or branch.
func badge(n domain.Node) (string, error) {
	switch n := n.(type) {
	case *domain.ObjectNode:
		return withAlternatives(n.TypeLabel("object"), n.Alternatives), nil
	case *domain.ArrayNode:
		label := n.TypeLabel("array")
		if n.UniqueItems {
			label += " (unique)"
		}
		return withAlternatives(label, n.Alternatives), nil
	case *domain.ScalarNode:
		return n.TypeLabel(string(n.Type)), nil
	case *domain.CombinatorNode:
		if len(n.Types) > 0 {
			return fmt.Sprintf("%s (%s)", n.Op, n.TypeLabel("")), nil
		}
		return string(n.Op), nil
	case *domain.CircularNode:
		return "circular " + n.Ref, nil
	default:
		return "", fmt.Errorf("%w: schema node %T", domain.ErrUnsupportedType, n)
	}
}

func withAlternatives(label string, c *domain.CombinatorNode) string {
	if c == nil {
		return label
	}
	return label + " + " + string(c.Op)
}
