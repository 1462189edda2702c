// Package domain defines the core business entities for Tempo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Activity: One tracked time interval with optional metadata
//   - QueryFilter: Time-window and project filtering for listings
//   - ValidateCandidate: The pure interval-consistency rules
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
