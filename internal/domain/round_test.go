package domain_test

import (
	"testing"

	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSettleOutcome(t *testing.T) {
	// Solo el `>` estricto gana UP; el empate resuelve a DOWN.
	assert.Equal(t, domain.OutcomeUp, domain.SettleOutcome(100, 150))
	assert.Equal(t, domain.OutcomeDown, domain.SettleOutcome(100, 50))
	assert.Equal(t, domain.OutcomeDown, domain.SettleOutcome(100, 100))
	assert.Equal(t, domain.OutcomeUp, domain.SettleOutcome(100, 101))
}

func TestOutcome_Matches(t *testing.T) {
	assert.True(t, domain.OutcomeUp.Matches(domain.DirectionUp))
	assert.True(t, domain.OutcomeDown.Matches(domain.DirectionDown))
	assert.False(t, domain.OutcomeUp.Matches(domain.DirectionDown))
	assert.False(t, domain.OutcomeDown.Matches(domain.DirectionUp))

	// Sin resolver no coincide con nada
	assert.False(t, domain.OutcomeUnset.Matches(domain.DirectionUp))
	assert.False(t, domain.OutcomeUnset.Matches(domain.DirectionDown))
}

func TestRoundStatus_Terminal(t *testing.T) {
	assert.False(t, domain.StatusWaiting.Terminal())
	assert.False(t, domain.StatusBetting.Terminal())
	assert.True(t, domain.StatusResolved.Terminal())
	assert.True(t, domain.StatusCancelled.Terminal())
}

func TestRound_Pools(t *testing.T) {
	r := domain.Round{PoolUp: 300, PoolDown: 700, Winner: domain.OutcomeUp}

	assert.Equal(t, uint64(300), r.Pool(domain.DirectionUp))
	assert.Equal(t, uint64(700), r.Pool(domain.DirectionDown))
	assert.Equal(t, uint64(300), r.WinningPool())
	assert.Equal(t, uint64(700), r.LosingPool())

	r.Winner = domain.OutcomeDown
	assert.Equal(t, uint64(700), r.WinningPool())
	assert.Equal(t, uint64(300), r.LosingPool())

	r.Winner = domain.OutcomeUnset
	assert.Zero(t, r.WinningPool())
	assert.Zero(t, r.LosingPool())
}

func TestRound_BettingOpen(t *testing.T) {
	r := domain.Round{Status: domain.StatusBetting, BettingDeadline: 100}

	assert.True(t, r.BettingOpen(99))
	assert.False(t, r.BettingOpen(100), "el deadline exacto ya está cerrado")
	assert.False(t, r.BettingOpen(101))

	r.Status = domain.StatusWaiting
	assert.False(t, r.BettingOpen(50))
}

func TestRound_Resolvable(t *testing.T) {
	r := domain.Round{Status: domain.StatusBetting, ResolutionTime: 200}

	assert.False(t, r.Resolvable(199))
	assert.True(t, r.Resolvable(200), "el instante exacto ya es resoluble")
	assert.True(t, r.Resolvable(201))

	r.Status = domain.StatusResolved
	assert.False(t, r.Resolvable(300))
}
