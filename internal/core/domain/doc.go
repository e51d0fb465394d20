// Package domain defines the core business entities for Almanac.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - BirthQuery: the immutable input to every calculator
//   - EphemerisResult: bodies, house cusps and angles for one instant
//   - DatasetRow: the canonical, persisted unit of calculator output
//   - ClosedInterval: an inclusive timing window over zoned instants
//   - ProviderKey: the fixed set of calculator roles
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
