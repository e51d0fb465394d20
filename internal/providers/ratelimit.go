package providers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/almanac/internal/core/domain"
	"github.com/custodia-labs/almanac/internal/core/ports/driven"
)

// Ensure RateLimited implements the interface.
var _ driven.EphemerisProvider = (*RateLimited)(nil)

// RateLimited throttles an ephemeris provider with a token bucket.
type RateLimited struct {
	next    driven.EphemerisProvider
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a limiter allowing rps calls per second
// and bursts of up to burst calls.
func NewRateLimited(next driven.EphemerisProvider, rps float64, burst int) *RateLimited {
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name returns the wrapped provider's name.
func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Unwrap returns the wrapped provider.
func (r *RateLimited) Unwrap() driven.EphemerisProvider {
	return r.next
}

// Positions waits for a token and delegates.
func (r *RateLimited) Positions(ctx context.Context, instant time.Time, coords domain.Coordinates, opts domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", r.next.Name(), err)
	}
	return r.next.Positions(ctx, instant, coords, opts)
}
