package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/valuesref/internal/core/domain"
	"github.com/custodia-labs/valuesref/internal/core/ports/driven"
)

// Ensure Decoder implements the interface.
var _ driven.SchemaDecoder = (*Decoder)(nil)

// maxAliasDepth bounds nested YAML alias expansion.
const maxAliasDepth = 64

// Decoder is a driven.SchemaDecoder for JSON and YAML.
type Decoder struct{}

// NewDecoder creates a new decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses data into an ordered value.
func (d *Decoder) Decode(data []byte) (domain.Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return domain.Value{}, ErrEmptyDocument
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		v, err := decodeJSON(trimmed)
		if err == nil {
			return v, nil
		}
		// Flow-style YAML also starts with a bracket.
		if yv, yerr := decodeYAML(data); yerr == nil {
			return yv, nil
		}
		return domain.Value{}, err
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) (domain.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSON(dec)
	if err != nil {
		return domain.Value{}, fmt.Errorf("json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Value{}, fmt.Errorf("json: %w", ErrTrailingData)
	}
	return v, nil
}

func readJSON(dec *json.Decoder) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return domain.Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var fields []domain.Field
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return domain.Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return domain.Value{}, fmt.Errorf("unexpected object key %v", kt)
				}
				val, err := readJSON(dec)
				if err != nil {
					return domain.Value{}, err
				}
				fields = append(fields, domain.Field{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil {
				return domain.Value{}, err
			}
			return domain.Map(fields...), nil
		case '[':
			var items []domain.Value
			for dec.More() {
				val, err := readJSON(dec)
				if err != nil {
					return domain.Value{}, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil {
				return domain.Value{}, err
			}
			return domain.List(items...), nil
		default:
			return domain.Value{}, fmt.Errorf("unexpected delimiter %q", rune(t))
		}
	case string:
		return domain.String(t), nil
	case json.Number:
		return domain.Number(t.String()), nil
	case bool:
		return domain.Bool(t), nil
	case nil:
		return domain.Null(), nil
	default:
		return domain.Value{}, fmt.Errorf("unexpected token %T", tok)
	}
}

func decodeYAML(data []byte) (domain.Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return domain.Value{}, fmt.Errorf("yaml: %w", err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return domain.Value{}, ErrEmptyDocument
	}
	return fromNode(&root, 0)
}

func fromNode(n *yaml.Node, aliases int) (domain.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return domain.Null(), nil
		}
		return fromNode(n.Content[0], aliases)
	case yaml.MappingNode:
		fields := make([]domain.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return domain.Value{}, fmt.Errorf("yaml: line %d: %w", k.Line, ErrNonScalarKey)
			}
			val, err := fromNode(v, aliases)
			if err != nil {
				return domain.Value{}, err
			}
			fields = append(fields, domain.Field{Key: k.Value, Value: val})
		}
		return domain.Map(fields...), nil
	case yaml.SequenceNode:
		items := make([]domain.Value, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := fromNode(c, aliases)
			if err != nil {
				return domain.Value{}, err
			}
			items = append(items, val)
		}
		return domain.List(items...), nil
	case yaml.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return domain.Value{}, fmt.Errorf("yaml: line %d: %w", n.Line, ErrAliasDepth)
		}
		return fromNode(n.Alias, aliases+1)
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return domain.Null(), nil
		case "!!bool":
			return domain.Bool(strings.EqualFold(n.Value, "true")), nil
		case "!!int", "!!float":
			return domain.Number(n.Value), nil
		default:
			return domain.String(n.Value), nil
		}
	default:
		return domain.Value{}, fmt.Errorf("yaml: unsupported node kind %d", n.Kind)
	}
}
