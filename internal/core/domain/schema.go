package domain

import "strings"

// ScalarType is the JSON type of a ScalarNode.
type ScalarType string

// Scalar types.
const (
	TypeString  ScalarType = "string"
	TypeNumber  ScalarType = "number"
	TypeInteger ScalarType = "integer"
	TypeBoolean ScalarType = "boolean"
	TypeNull    ScalarType = "null"
)

// CombinatorOp identifies the keyword a CombinatorNode was built from.
type CombinatorOp string

// Combinator operators.
const (
	OneOf CombinatorOp = "oneOf"
	AnyOf CombinatorOp = "anyOf"
)

// Meta holds the annotations shared by every schema node variant.
type Meta struct {
	// Title is the schema title, if any.
	Title string

	// Description is the schema description, if any.
	Description string

	// Default is the declared default value, or nil.
	Default *Value

	// Enum holds the declared enumeration, in order.
	Enum []Value

	// Types is the declared type list, in order. It is empty when the
	// variant was inferred.
	Types []string

	// Path is the address of the node from the document root.
	Path Path
}

// Node is a resolved schema node.
// The set of variants is closed: ObjectNode, ArrayNode, ScalarNode,
// CombinatorNode and CircularNode. Consumers must type-switch over all of
// them.
type Node interface {
	// Annotations returns the shared annotations of the node.
	Annotations() *Meta

	isNode()
}

// Property is a named child of an ObjectNode.
type Property struct {
	Name string
	Node Node
}

// ObjectNode is an object schema with declared properties.
type ObjectNode struct {
	Meta

	// Properties in declaration order.
	Properties []Property

	// Required lists the property names required by this object.
	Required []string

	// Alternatives holds oneOf/anyOf branches declared next to the
	// properties, or nil.
	Alternatives *CombinatorNode
}

// ArrayNode is an array schema.
type ArrayNode struct {
	Meta

	// Items is the schema of every element, or nil if undeclared.
	Items Node

	// UniqueItems reports whether elements must be distinct.
	UniqueItems bool

	// Alternatives holds oneOf/anyOf branches declared next to items,
	// or nil.
	Alternatives *CombinatorNode
}

// ScalarNode is a string, number, integer, boolean or null schema.
type ScalarNode struct {
	Meta

	Type ScalarType
}

// CombinatorNode is a oneOf/anyOf schema whose branches are alternatives.
type CombinatorNode struct {
	Meta

	Op       CombinatorOp
	Branches []Node
}

// CircularNode marks a $ref that was revisited while still being expanded.
type CircularNode struct {
	Meta

	// Ref is the unexpanded reference pointer.
	Ref string
}

// Annotations implements Node.
func (n *ObjectNode) Annotations() *Meta { return &n.Meta }

// Annotations implements Node.
func (n *ArrayNode) Annotations() *Meta { return &n.Meta }

// Annotations implements Node.
func (n *ScalarNode) Annotations() *Meta { return &n.Meta }

// Annotations implements Node.
func (n *CombinatorNode) Annotations() *Meta { return &n.Meta }

// Annotations implements Node.
func (n *CircularNode) Annotations() *Meta { return &n.Meta }

func (*ObjectNode) isNode()     {}
func (*ArrayNode) isNode()      {}
func (*ScalarNode) isNode()     {}
func (*CombinatorNode) isNode() {}
func (*CircularNode) isNode()   {}

// IsRequired reports whether name is listed in the object's required set.
func (n *ObjectNode) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// TypeLabel returns the badge label of the declared types, joined with " | ".
// When no type was declared, fallback is returned.
func (m *Meta) TypeLabel(fallback string) string {
	if len(m.Types) == 0 {
		return fallback
	}
	return strings.Join(m.Types, " | ")
}
