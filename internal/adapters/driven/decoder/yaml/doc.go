// Package yaml decodes raw values schemas into ordered domain values.
//
// JSON input is read as a go-json token stream; anything else is parsed
// as YAML through yaml.v3 nodes. Both paths keep map key order and the
// literal text of numbers.
package yaml
