package domain

import (
	"strconv"
	"strings"
)

// ValueKind identifies the shape of a decoded Value.
type ValueKind int

// Value kinds.
const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueList
	ValueMap
)

// String returns the JSON type name of the kind.
func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "boolean"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueList:
		return "array"
	case ValueMap:
		return "object"
	default:
		return unknownDescription
	}
}

// Value is an ordered JSON/YAML value.
// Map fields keep declaration order. Bool and number scalars keep the
// source text verbatim in Scalar; strings keep their unquoted content.
type Value struct {
	Kind   ValueKind
	Scalar string
	Items  []Value
	Fields []Field
}

// Field is one key of a map Value.
type Field struct {
	Key   string
	Value Value
}

// Null returns a null Value.
func Null() Value { return Value{Kind: ValueNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{Kind: ValueBool, Scalar: strconv.FormatBool(b)}
}

// Number returns a number Value with the given literal text.
func Number(literal string) Value { return Value{Kind: ValueNumber, Scalar: literal} }

// String returns a string Value.
func String(s string) Value { return Value{Kind: ValueString, Scalar: s} }

// List returns a list Value.
func List(items ...Value) Value { return Value{Kind: ValueList, Items: items} }

// Map returns a map Value with fields in the given order.
func Map(fields ...Field) Value { return Value{Kind: ValueMap, Fields: fields} }

// Get returns the first field with the given key of a map Value.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != ValueMap {
		return Value{}, false
	}
	for i := range v.Fields {
		if v.Fields[i].Key == key {
			return v.Fields[i].Value, true
		}
	}
	return Value{}, false
}

// Has reports whether a map Value declares key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Str returns the string content if v is a string.
func (v Value) Str() (string, bool) {
	if v.Kind != ValueString {
		return "", false
	}
	return v.Scalar, true
}

// Truthy reports whether v is the boolean true.
func (v Value) Truthy() bool {
	return v.Kind == ValueBool && v.Scalar == "true"
}

// Strings returns the string items of a list Value, or a single string.
func (v Value) Strings() []string {
	switch v.Kind {
	case ValueString:
		return []string{v.Scalar}
	case ValueList:
		out := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			if s, ok := it.Str(); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Literal renders the value as a single-line YAML flow literal.
// Scalars are rendered without type coercion; strings are quoted only
// when a YAML reader would otherwise see a different type or syntax.
func (v Value) Literal() string {
	var b strings.Builder
	v.writeLiteral(&b, false)
	return b.String()
}

// writeLiteral writes v; inFlow is set for elements of a list or map
// literal, where flow indicators end a plain scalar.
func (v Value) writeLiteral(b *strings.Builder, inFlow bool) {
	switch v.Kind {
	case ValueNull:
		b.WriteString("null")
	case ValueBool, ValueNumber:
		b.WriteString(v.Scalar)
	case ValueString:
		if inFlow {
			b.WriteString(quoteFlowScalar(v.Scalar))
		} else {
			b.WriteString(QuoteScalar(v.Scalar))
		}
	case ValueList:
		b.WriteByte('[')
		for i, it := range v.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.writeLiteral(b, true)
		}
		b.WriteByte(']')
	case ValueMap:
		b.WriteByte('{')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(f.Key))
			b.WriteString(": ")
			f.Value.writeLiteral(b, true)
		}
		b.WriteByte('}')
	}
}

// QuoteScalar returns s as a YAML plain scalar when that is unambiguous,
// otherwise as a double-quoted scalar.
func QuoteScalar(s string) string {
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func quoteFlowScalar(s string) string {
	if needsQuotes(s) || strings.ContainsAny(s, flowSpecial) {
		return strconv.Quote(s)
	}
	return s
}

// flowSpecial holds the flow indicators plus ":", which yaml readers may
// take as a key separator inside a flow collection.
const flowSpecial = ",[]{}:"

var reservedPlain = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true, "on": true, "off": true,
	"y": true, "n": true, "null": true, "~": true,
	".inf": true, "-.inf": true, "+.inf": true, ".nan": true,
}

func needsQuotes(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return true
	}
	if reservedPlain[strings.ToLower(s)] {
		return true
	}
	if looksNumeric(s) {
		return true
	}
	if strings.ContainsAny(s[:1], "-?:,[]{}#&*!|>'\"%@`") {
		return true
	}
	if strings.Contains(s, ": ") || strings.Contains(s, " #") || strings.HasSuffix(s, ":") {
		return true
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f || r == '\u00a0' || r == '\u2028' || r == '\u2029' || r == '\ufeff' {
			return true
		}
	}
	return false
}

func looksNumeric(s string) bool {
	t := strings.ReplaceAll(s, "_", "")
	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseInt(t, 0, 64); err == nil {
		return true
	}
	return false
}
