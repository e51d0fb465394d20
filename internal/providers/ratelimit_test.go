package providers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/almanac/internal/core/domain"
)

type countingEphemeris struct {
	calls atomic.Int32
}

func (c *countingEphemeris) Name() string { return "counting" }

func (c *countingEphemeris) Positions(_ context.Context, _ time.Time, _ domain.Coordinates, _ domain.EphemerisOptions) (*domain.EphemerisResult, error) {
	c.calls.Add(1)
	return &domain.EphemerisResult{Metadata: domain.EphemerisMetadata{Provider: "counting"}}, nil
}

func TestRateLimited_PassesThroughWithinBurst(t *testing.T) {
	next := &countingEphemeris{}
	limited := NewRateLimited(next, 1, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limited.Positions(ctx, time.Now(), domain.Coordinates{}, domain.EphemerisOptions{})
		require.NoError(t, err)
		assert.Equal(t, "counting", res.Metadata.Provider)
	}
	assert.Equal(t, int32(3), next.calls.Load())
	assert.Equal(t, "counting", limited.Name())
	assert.Same(t, next, limited.Unwrap())
}

func TestRateLimited_BlocksPastBurst(t *testing.T) {
	next := &countingEphemeris{}
	limited := NewRateLimited(next, 0.001, 1)

	_, err := limited.Positions(context.Background(), time.Now(), domain.Coordinates{}, domain.EphemerisOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Positions(ctx, time.Now(), domain.Coordinates{}, domain.EphemerisOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit counting")
	assert.Equal(t, int32(1), next.calls.Load())
}

func TestRateLimited_CancelledContext(t *testing.T) {
	next := &countingEphemeris{}
	limited := NewRateLimited(next, 10, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := limited.Positions(ctx, time.Now(), domain.Coordinates{}, domain.EphemerisOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, next.calls.Load())
}
