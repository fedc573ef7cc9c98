package engine

// bets.go — admisión de apuestas.
//
// Orden de commit: validar todo → transferir stake al tesoro → mutar
// memoria (no puede fallar) → persistir. Si la transferencia falla no
// se crea registro alguno; si la persistencia falla tras una
// transferencia completada, el error es ErrStateDiverged: el estado en
// memoria es correcto pero el snapshot durable no, y nunca se descartan
// fondos en silencio.

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// PlaceBet admite una apuesta en una ronda abierta. Una cuenta solo
// puede apostar una vez por ronda; el stake viaja del apostador a la
// tesorería de forma atómica con el alta del registro.
func (e *Engine) PlaceBet(ctx context.Context, roundID uint64, bettor domain.Account, amount uint64, direction domain.Direction) error {
	if !direction.Valid() {
		return fmt.Errorf("engine.PlaceBet: %w", domain.ErrInvalidDirection)
	}
	if amount == 0 {
		return fmt.Errorf("engine.PlaceBet: %w", domain.ErrInvalidAmount)
	}

	lock, err := e.lockRound(roundID)
	if err != nil {
		return fmt.Errorf("engine.PlaceBet: round %d: %w", roundID, err)
	}
	lock.Lock()
	defer lock.Unlock()

	key := betKey{roundID, bettor}

	e.mu.Lock()
	round, ok := e.rounds[roundID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("engine.PlaceBet: round %d: %w", roundID, domain.ErrRoundNotFound)
	}
	now := e.clock.Now()
	switch {
	case round.Status != domain.StatusBetting:
		status := round.Status
		e.mu.Unlock()
		return fmt.Errorf("engine.PlaceBet: round %d is %s: %w", roundID, status, domain.ErrRoundNotBetting)
	case !round.BettingOpen(now):
		e.mu.Unlock()
		return fmt.Errorf("engine.PlaceBet: round %d: %w", roundID, domain.ErrBettingClosed)
	}
	if _, exists := e.bets[key]; exists {
		e.mu.Unlock()
		return fmt.Errorf("engine.PlaceBet: round %d bettor %s: %w", roundID, bettor, domain.ErrDuplicateBet)
	}
	if amount > math.MaxUint64-round.Pool(direction) {
		// El pool no puede desbordar uint64; rechazar como monto inválido.
		e.mu.Unlock()
		return fmt.Errorf("engine.PlaceBet: round %d: pool overflow: %w", roundID, domain.ErrInvalidAmount)
	}
	treasury := e.state.Treasury
	e.mu.Unlock()

	// El stake se mueve antes de crear el registro: si falla, la
	// operación entera falla sin efectos.
	if err := e.ledger.Transfer(ctx, bettor, treasury, amount); err != nil {
		return fmt.Errorf("engine.PlaceBet: transfer stake: %w", err)
	}

	e.mu.Lock()
	bet := &domain.Bet{
		RoundID:   roundID,
		Bettor:    bettor,
		Amount:    amount,
		Direction: direction,
		PlacedAt:  now,
	}
	e.bets[key] = bet
	switch direction {
	case domain.DirectionUp:
		round.PoolUp += amount
	case domain.DirectionDown:
		round.PoolDown += amount
	}
	e.state.TotalVolume += amount
	betSnap := *bet
	roundSnap := *round
	st := e.state
	e.mu.Unlock()

	err = e.persistBet(ctx, betSnap)
	if err == nil {
		err = e.persistRound(ctx, roundSnap)
	}
	if err == nil {
		err = e.persistState(ctx, st)
	}
	if err != nil {
		// Los fondos ya se movieron: esto no es recuperable localmente.
		slog.Error("engine: bet committed but persistence failed",
			"round", roundID, "bettor", bettor, "err", err)
		return fmt.Errorf("engine.PlaceBet: %w: %w", domain.ErrStateDiverged, err)
	}

	slog.Info("engine: bet placed",
		"round", roundID,
		"bettor", bettor,
		"amount", amount,
		"direction", direction.String(),
	)
	return nil
}
