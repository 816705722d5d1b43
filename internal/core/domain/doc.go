// Package domain defines the core business entities for Inkwell.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Manuscript: A parsed manuscript with chapters and paragraphs
//   - DocumentVersion: An immutable, hashed snapshot of one import
//   - TextAnchor: A resilient pointer into manuscript text
//   - Alert: A finding produced by an analyzer, with lifecycle state
//   - AlertStateChange: One append-only row of alert history
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
