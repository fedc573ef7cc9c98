package pricefeed_test

import (
	"context"
	"testing"

	"github.com/alejandrodnm/predictbet/internal/adapters/pricefeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSimulated_Deterministic: misma semilla, misma secuencia.
func TestSimulated_Deterministic(t *testing.T) {
	ctx := context.Background()
	a := pricefeed.NewSimulated(73_105, pricefeed.VolatilityMedium, 42)
	b := pricefeed.NewSimulated(73_105, pricefeed.VolatilityMedium, 42)

	for i := 0; i < 200; i++ {
		pa, err := a.Current(ctx)
		require.NoError(t, err)
		pb, err := b.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, pa, pb, "paso %d", i)
	}
}

func TestSimulated_DifferentSeedsDiverge(t *testing.T) {
	ctx := context.Background()
	a := pricefeed.NewSimulated(73_105, pricefeed.VolatilityHigh, 1)
	b := pricefeed.NewSimulated(73_105, pricefeed.VolatilityHigh, 2)

	diverged := false
	for i := 0; i < 50; i++ {
		pa, _ := a.Current(ctx)
		pb, _ := b.Current(ctx)
		if pa != pb {
			diverged = true
			break
		}
	}
	assert.True(t, diverged)
}

// TestSimulated_Bounds: el precio nunca sale de la banda ±20%.
func TestSimulated_Bounds(t *testing.T) {
	ctx := context.Background()
	const start = 73_105
	feed := pricefeed.NewSimulated(start, pricefeed.VolatilityHigh, 99)

	for i := 0; i < 5_000; i++ {
		p, err := feed.Current(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p, uint64(start*8/10))
		assert.LessOrEqual(t, p, uint64(start*12/10))
	}
}

func TestSimulated_ContextCancelled(t *testing.T) {
	feed := pricefeed.NewSimulated(73_105, pricefeed.VolatilityLow, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := feed.Current(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
