// Package domain defines the core entities for valuesref.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Value: An ordered, decoded JSON/YAML document
//   - Node: A resolved schema node (closed set of variants)
//   - Line: One renderable unit of the flattened document
//   - PathIndex: Immutable path lookup built from a Line sequence
//   - Document: A loaded, resolved and indexed values schema
//   - PackageRef: Identifies where a schema comes from
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
