// Package cgo provides CGO bindings for native libraries.
// This package isolates all CGO code from the pure Go core.
//
// Sub-packages:
//   - swisseph: Swiss Ephemeris bindings for high-precision positions
package cgo
