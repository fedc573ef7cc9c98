package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/predictbet/internal/adapters/pricefeed"
	"github.com/alejandrodnm/predictbet/internal/application/engine"
	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduler_RunRound ejecuta un ciclo completo con reloj manual:
// el callback de apertura apuesta y luego salta el reloj hasta el
// instante de resolución, así el test es determinista.
func TestScheduler_RunRound(t *testing.T) {
	eng, clk, _ := newTestEngine(t, nil)
	feed := pricefeed.NewSimulated(73_105, pricefeed.VolatilityMedium, 42)
	sched := engine.NewScheduler(eng, feed, clk, engine.SchedulerConfig{
		PollInterval: time.Millisecond,
		Rounds:       1,
	})

	ctx := context.Background()
	var seen []domain.Round
	sched.Subscribe(func(r domain.Round) {
		seen = append(seen, r)
		if r.Status == domain.StatusBetting {
			// Durante la ventana de apuestas el reloj sigue en
			// t=1000, así que la apuesta entra.
			require.NoError(t, eng.PlaceBet(ctx, r.ID, alice, 100, domain.DirectionUp))
			clk.Set(r.ResolutionTime)
		}
	})

	round, err := sched.RunRound(ctx)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, domain.StatusBetting, seen[0].Status)
	assert.Equal(t, domain.StatusResolved, seen[1].Status)
	assert.Equal(t, round, seen[1])

	assert.Equal(t, uint64(1), round.ID)
	assert.NotZero(t, round.EntryPrice)
	assert.NotZero(t, round.SettlementPrice)
	assert.NotEqual(t, domain.OutcomeUnset, round.Winner)
	assert.Equal(t, uint64(100), round.PoolUp)
}

// TestScheduler_ContinuesFromCounter comprueba que los IDs continúan
// desde el contador global y no se repiten entre rondas.
func TestScheduler_ContinuesFromCounter(t *testing.T) {
	eng, clk, _ := newTestEngine(t, nil)
	ctx := context.Background()

	// Tres rondas ya creadas por otra vía
	for id := uint64(1); id <= 3; id++ {
		require.NoError(t, eng.CreateRound(ctx, authority, id))
	}

	feed := pricefeed.NewSimulated(73_105, pricefeed.VolatilityLow, 7)
	sched := engine.NewScheduler(eng, feed, clk, engine.SchedulerConfig{
		PollInterval: time.Millisecond,
	})
	sched.Subscribe(func(r domain.Round) {
		if r.Status == domain.StatusBetting {
			clk.Set(r.ResolutionTime)
		}
	})

	round, err := sched.RunRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), round.ID)

	round, err = sched.RunRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), round.ID)
}

// TestScheduler_ContextCancelled: un contexto cancelado durante la
// espera corta el ciclo sin resolver la ronda.
func TestScheduler_ContextCancelled(t *testing.T) {
	eng, clk, _ := newTestEngine(t, nil)
	feed := pricefeed.NewSimulated(73_105, pricefeed.VolatilityLow, 1)
	sched := engine.NewScheduler(eng, feed, clk, engine.SchedulerConfig{
		PollInterval: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	sched.Subscribe(func(r domain.Round) {
		if r.Status == domain.StatusBetting {
			cancel() // el reloj nunca avanza: aborta la espera
		}
	})

	_, err := sched.RunRound(ctx)
	require.ErrorIs(t, err, context.Canceled)

	r, err := eng.Round(1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBetting, r.Status)
}
