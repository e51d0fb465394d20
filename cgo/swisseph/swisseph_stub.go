//go:build !cgo || !swisseph

package swisseph

import (
	"github.com/custodia-labs/almanac/internal/providers/ephemeris/swiss"
)

// Open reports that the library was not compiled in.
// This is a stub for builds without CGO or the swisseph tag.
func Open() (swiss.Backend, error) {
	return nil, swiss.ErrUnavailable
}

// Available reports whether the binding was compiled in.
func Available() bool { return false }
