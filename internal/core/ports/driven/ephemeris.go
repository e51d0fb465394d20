package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

// EphemerisProvider computes positions for one instant and place.
// Every implementation returns the same result shape, with all longitudes
// in the frame selected by opts.Zodiac.
type EphemerisProvider interface {
	// Name returns the provider identifier reported in result metadata.
	Name() string

	// Positions computes bodies, houses and angles.
	// Returns an error matching domain.ErrInvalidInput for bad input and
	// domain.ErrComputationFailure when the backend cannot produce a result.
	Positions(ctx context.Context, instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error)
}
