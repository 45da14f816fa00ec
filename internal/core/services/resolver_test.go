package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/valuesref/internal/core/domain"
)

func TestResolve_LocalRefWithSiblingOverride(t *testing.T) {
	root, err := Resolve(decode(t, `{
		"type": "object",
		"properties": {
			"a": {"$ref": "#/definitions/s", "description": "over"},
			"b": {"$ref": "#/definitions/s"}
		},
		"definitions": {
			"s": {"type": "string", "description": "base", "default": "x"}
		}
	}`), ResolveOptions{})
	require.NoError(t, err)

	obj, ok := root.(*domain.ObjectNode)
	require.True(t, ok)
	require.Len(t, obj.Properties, 2)

	a, ok := obj.Properties[0].Node.(*domain.ScalarNode)
	require.True(t, ok)
	assert.Equal(t, domain.TypeString, a.Type)
	assert.Equal(t, "over", a.Description)
	require.NotNil(t, a.Default)
	assert.Equal(t, "x", a.Default.Scalar)
	assert.Equal(t, "a", a.Path.Key())

	// Reusing a definition elsewhere is not a cycle.
	b, ok := obj.Properties[1].Node.(*domain.ScalarNode)
	require.True(t, ok)
	assert.Equal(t, "base", b.Description)
	assert.Equal(t, "b", b.Path.Key())
}

func TestResolve_CycleBecomesCircularNode(t *testing.T) {
	root, err := Resolve(decode(t, `{
		"properties": {"node": {"$ref": "#/definitions/node"}},
		"definitions": {
			"node": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"children": {"type": "array", "items": {"$ref": "#/definitions/node"}}
				}
			}
		}
	}`), ResolveOptions{})
	require.NoError(t, err)

	node := root.(*domain.ObjectNode).Properties[0].Node.(*domain.ObjectNode)
	children, ok := node.Properties[1].Node.(*domain.ArrayNode)
	require.True(t, ok)
	circ, ok := children.Items.(*domain.CircularNode)
	require.True(t, ok)
	assert.Equal(t, "#/definitions/node", circ.Ref)
	assert.Equal(t, "node.children[]", circ.Path.Key())
}

func TestResolve_MutualCycle(t *testing.T) {
	root, err := Resolve(decode(t, `{
		"properties": {"x": {"$ref": "#/definitions/a"}},
		"definitions": {
			"a": {"properties": {"b": {"$ref": "#/definitions/b"}}},
			"b": {"properties": {"a": {"$ref": "#/definitions/a"}}}
		}
	}`), ResolveOptions{})
	require.NoError(t, err)

	x := root.(*domain.ObjectNode).Properties[0].Node.(*domain.ObjectNode)
	b := x.Properties[0].Node.(*domain.ObjectNode)
	_, ok := b.Properties[0].Node.(*domain.CircularNode)
	assert.True(t, ok)
}

func TestResolve_DanglingRefs(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		wantRef string
	}{
		{"missing definition", `{"properties": {"a": {"$ref": "#/definitions/missing"}}}`, "#/definitions/missing"},
		{"non-string ref", `{"properties": {"a": {"$ref": 1}}}`, "1"},
		{"unknown external", `{"properties": {"a": {"$ref": "other.json#/x"}}}`, "other.json#/x"},
		{"pointer into scalar", `{"properties": {"a": {"$ref": "#/properties/a/$ref/x"}}}`, "#/properties/a/$ref/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(decode(t, tt.schema), ResolveOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrDanglingRef)

			var re *domain.ResolutionError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, domain.DanglingRef, re.Kind)
			assert.Equal(t, tt.wantRef, re.Ref)
			assert.Equal(t, "a", re.Path.Key())
		})
	}
}

func TestResolve_Externals(t *testing.T) {
	ext := decode(t, `{
		"definitions": {
			"port": {"$ref": "#/definitions/int"},
			"int": {"type": "integer", "default": 80},
			"far": {"$ref": "third.json#/x"}
		}
	}`)

	root, err := Resolve(decode(t, `{
		"properties": {"port": {"$ref": "common.json#/definitions/port"}}
	}`), ResolveOptions{Externals: map[string]domain.Value{"common.json": ext}})
	require.NoError(t, err)

	port, ok := root.(*domain.ObjectNode).Properties[0].Node.(*domain.ScalarNode)
	require.True(t, ok)
	assert.Equal(t, domain.TypeInteger, port.Type)
	assert.Equal(t, "80", port.Default.Literal())

	// Refs from an external document to a third one are not followed.
	_, err = Resolve(decode(t, `{
		"properties": {"far": {"$ref": "common.json#/definitions/far"}}
	}`), ResolveOptions{Externals: map[string]domain.Value{"common.json": ext}})
	assert.ErrorIs(t, err, domain.ErrDanglingRef)
}

func TestResolve_Oversized(t *testing.T) {
	_, err := Resolve(decode(t, `{
		"properties": {
			"a": {"$ref": "#/definitions/wide"},
			"b": {"$ref": "#/definitions/wide"}
		},
		"definitions": {
			"wide": {"properties": {"p1": {}, "p2": {}, "p3": {}, "p4": {}}}
		}
	}`), ResolveOptions{MaxNodes: 6})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOversized)
}

func TestResolve_PointerEscapes(t *testing.T) {
	root, err := Resolve(decode(t, `{
		"properties": {
			"slash": {"$ref": "#/definitions/a~1b"},
			"tilde": {"$ref": "#/definitions/c~0d"},
			"space": {"$ref": "#/definitions/e%20f"},
			"index": {"$ref": "#/definitions/list/1"}
		},
		"definitions": {
			"a/b": {"type": "string"},
			"c~d": {"type": "boolean"},
			"e f": {"type": "number"},
			"list": [{"type": "string"}, {"type": "integer"}]
		}
	}`), ResolveOptions{})
	require.NoError(t, err)

	props := root.(*domain.ObjectNode).Properties
	want := []domain.ScalarType{domain.TypeString, domain.TypeBoolean, domain.TypeNumber, domain.TypeInteger}
	for i, w := range want {
		assert.Equal(t, w, props[i].Node.(*domain.ScalarNode).Type, props[i].Name)
	}
}

func TestResolve_TypeInference(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		want   string
	}{
		{"integer default", `{"default": 3}`, "integer"},
		{"number default", `{"default": 1.5}`, "number"},
		{"exponent default", `{"default": 1e3}`, "number"},
		{"string enum", `{"enum": ["a", "b"]}`, "string"},
		{"const", `{"const": true}`, "boolean"},
		{"nothing", `{}`, "null"},
		{"explicit null", `{"type": "null"}`, "null"},
		{"nullable string", `{"type": ["null", "string"]}`, "string"},
		{"properties", `{"properties": {"a": {}}}`, "object"},
		{"items", `{"items": {}}`, "array"},
		{"map default", `{"default": {}}`, "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Resolve(decode(t, tt.schema), ResolveOptions{})
			require.NoError(t, err)
			switch n := n.(type) {
			case *domain.ObjectNode:
				assert.Equal(t, "object", tt.want)
			case *domain.ArrayNode:
				assert.Equal(t, "array", tt.want)
			case *domain.ScalarNode:
				assert.Equal(t, tt.want, string(n.Type))
			default:
				t.Fatalf("unexpected node %T", n)
			}
		})
	}
}

func TestResolve_MultipleTypesKeepAllForBadge(t *testing.T) {
	n, err := Resolve(decode(t, `{"type": ["string", "null"]}`), ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"string", "null"}, n.Annotations().Types)
	assert.Equal(t, "string | null", n.Annotations().TypeLabel("x"))
}

func TestResolve_Combinators(t *testing.T) {
	t.Run("oneOf branches", func(t *testing.T) {
		n, err := Resolve(decode(t, `{"oneOf": [{"type": "string"}, {"$ref": "#/definitions/o"}], "definitions": {"o": {"type": "object"}}}`), ResolveOptions{})
		require.NoError(t, err)
		c, ok := n.(*domain.CombinatorNode)
		require.True(t, ok)
		assert.Equal(t, domain.OneOf, c.Op)
		require.Len(t, c.Branches, 2)
		assert.IsType(t, &domain.ScalarNode{}, c.Branches[0])
		assert.IsType(t, &domain.ObjectNode{}, c.Branches[1])
	})

	t.Run("anyOf with sibling type", func(t *testing.T) {
		n, err := Resolve(decode(t, `{"type": "object", "anyOf": [{"type": "object"}, {"type": "null"}]}`), ResolveOptions{})
		require.NoError(t, err)
		c, ok := n.(*domain.CombinatorNode)
		require.True(t, ok)
		assert.Equal(t, domain.AnyOf, c.Op)
		assert.Equal(t, []string{"object"}, c.Types)
	})

	t.Run("constraint-only branches are ignored", func(t *testing.T) {
		n, err := Resolve(decode(t, `{
			"properties": {"a": {"type": "string"}, "b": {"type": "string"}},
			"oneOf": [{"required": ["a"]}, {"required": ["b"]}]
		}`), ResolveOptions{})
		require.NoError(t, err)
		assert.IsType(t, &domain.ObjectNode{}, n)
	})

	t.Run("untyped properties keep the combinator as alternatives", func(t *testing.T) {
		n, err := Resolve(decode(t, `{
			"properties": {"a": {"type": "string"}},
			"anyOf": [{"type": "object"}]
		}`), ResolveOptions{})
		require.NoError(t, err)
		obj, ok := n.(*domain.ObjectNode)
		require.True(t, ok)
		require.Len(t, obj.Properties, 1)
		require.NotNil(t, obj.Alternatives)
		assert.Equal(t, domain.AnyOf, obj.Alternatives.Op)
		assert.Len(t, obj.Alternatives.Branches, 1)
	})

	t.Run("typed properties are kept next to oneOf", func(t *testing.T) {
		n, err := Resolve(decode(t, `{
			"type": "object",
			"properties": {"a": {"type": "string"}},
			"oneOf": [{"properties": {"b": {"type": "string"}}}, {"properties": {"c": {"type": "string"}}}]
		}`), ResolveOptions{})
		require.NoError(t, err)
		obj, ok := n.(*domain.ObjectNode)
		require.True(t, ok)
		require.Len(t, obj.Properties, 1)
		assert.Equal(t, "a", obj.Properties[0].Name)
		require.NotNil(t, obj.Alternatives)
		require.Len(t, obj.Alternatives.Branches, 2)
		b := obj.Alternatives.Branches[0].(*domain.ObjectNode)
		assert.Equal(t, "b", b.Properties[0].Node.Annotations().Path.Key())
	})

	t.Run("items are kept next to anyOf", func(t *testing.T) {
		n, err := Resolve(decode(t, `{
			"type": "array",
			"items": {"type": "string"},
			"anyOf": [{"maxItems": 1, "type": "array"}]
		}`), ResolveOptions{})
		require.NoError(t, err)
		arr, ok := n.(*domain.ArrayNode)
		require.True(t, ok)
		assert.IsType(t, &domain.ScalarNode{}, arr.Items)
		require.NotNil(t, arr.Alternatives)
	})

	t.Run("constraint-only branches attach nothing", func(t *testing.T) {
		n, err := Resolve(decode(t, `{
			"type": "object",
			"properties": {"a": {"type": "string"}},
			"anyOf": [{"required": ["a"]}]
		}`), ResolveOptions{})
		require.NoError(t, err)
		assert.Nil(t, n.(*domain.ObjectNode).Alternatives)
	})
}

func TestResolve_TupleItems(t *testing.T) {
	n, err := Resolve(decode(t, `{"type": "array", "items": [{"type": "string"}, {"type": "integer"}], "uniqueItems": true}`), ResolveOptions{})
	require.NoError(t, err)
	arr, ok := n.(*domain.ArrayNode)
	require.True(t, ok)
	assert.True(t, arr.UniqueItems)
	assert.Equal(t, domain.TypeString, arr.Items.(*domain.ScalarNode).Type)
	assert.Equal(t, "[]", arr.Items.Annotations().Path.Key())
}

func TestResolve_Annotations(t *testing.T) {
	n, err := Resolve(decode(t, `{
		"title": "Root",
		"description": "Top level",
		"properties": {"mode": {"type": "string", "enum": ["a", "b"]}, "fixed": {"const": 3}},
		"required": ["mode"]
	}`), ResolveOptions{})
	require.NoError(t, err)

	obj := n.(*domain.ObjectNode)
	assert.Equal(t, "Root", obj.Title)
	assert.Equal(t, "Top level", obj.Description)
	assert.True(t, obj.IsRequired("mode"))
	assert.False(t, obj.IsRequired("fixed"))

	mode := obj.Properties[0].Node.Annotations()
	require.Len(t, mode.Enum, 2)
	assert.Equal(t, "a", mode.Enum[0].Scalar)

	fixed := obj.Properties[1].Node.(*domain.ScalarNode)
	assert.Equal(t, domain.TypeInteger, fixed.Type)
	require.Len(t, fixed.Enum, 1)
}
