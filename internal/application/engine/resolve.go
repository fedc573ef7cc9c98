package engine

// resolve.go — máquina de estados de resolución.
//
// Waiting → Betting → Resolved; Cancelled alcanzable desde Waiting o
// Betting. Resolved y Cancelled son terminales: la segunda resolución
// falla con ErrAlreadyResolved y el resultado registrado no se toca.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// ResolveRound cierra una ronda con el precio de liquidación aportado
// por el resolutor autorizado (autoridad u oráculo). El ganador se
// deriva con `>` estricto sobre el precio de entrada: el empate
// resuelve a DOWN, desempate fijo y no configurable. Los pools quedan
// congelados en este instante.
func (e *Engine) ResolveRound(ctx context.Context, caller domain.Account, roundID, settlementPrice uint64) error {
	if !e.State().CanResolve(caller) {
		return fmt.Errorf("engine.ResolveRound: caller %s: %w", caller, domain.ErrUnauthorized)
	}

	lock, err := e.lockRound(roundID)
	if err != nil {
		return fmt.Errorf("engine.ResolveRound: %d: %w", roundID, err)
	}
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	round, ok := e.rounds[roundID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("engine.ResolveRound: %d: %w", roundID, domain.ErrRoundNotFound)
	}
	switch {
	case round.Status.Terminal():
		e.mu.Unlock()
		return fmt.Errorf("engine.ResolveRound: %d: %w", roundID, domain.ErrAlreadyResolved)
	case round.Status != domain.StatusBetting:
		status := round.Status
		e.mu.Unlock()
		return fmt.Errorf("engine.ResolveRound: %d is %s: %w", roundID, status, domain.ErrRoundNotBetting)
	case !round.Resolvable(e.clock.Now()):
		e.mu.Unlock()
		return fmt.Errorf("engine.ResolveRound: %d: %w", roundID, domain.ErrTooEarlyToResolve)
	}

	prev := *round
	round.SettlementPrice = settlementPrice
	round.Winner = domain.SettleOutcome(round.EntryPrice, settlementPrice)
	round.Status = domain.StatusResolved
	snapshot := *round
	e.mu.Unlock()

	if err := e.persistRound(ctx, snapshot); err != nil {
		e.mu.Lock()
		*round = prev
		e.mu.Unlock()
		return fmt.Errorf("engine.ResolveRound: persist %d: %w", roundID, err)
	}

	slog.Info("engine: round resolved",
		"round", roundID,
		"entry_price", snapshot.EntryPrice,
		"settlement_price", settlementPrice,
		"winner", snapshot.Winner.String(),
		"pool_up", snapshot.PoolUp,
		"pool_down", snapshot.PoolDown,
	)
	return nil
}

// CancelRound aborta administrativamente una ronda que aún no se ha
// resuelto. No hay ganador y las apuestas quedan reembolsables; la
// política de reembolso es del colaborador externo, aquí solo existe el
// estado que la desbloquea.
func (e *Engine) CancelRound(ctx context.Context, caller domain.Account, roundID uint64) error {
	if !e.State().CanResolve(caller) {
		return fmt.Errorf("engine.CancelRound: caller %s: %w", caller, domain.ErrUnauthorized)
	}

	lock, err := e.lockRound(roundID)
	if err != nil {
		return fmt.Errorf("engine.CancelRound: %d: %w", roundID, err)
	}
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	round, ok := e.rounds[roundID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("engine.CancelRound: %d: %w", roundID, domain.ErrRoundNotFound)
	}
	if round.Status.Terminal() {
		e.mu.Unlock()
		return fmt.Errorf("engine.CancelRound: %d: %w", roundID, domain.ErrAlreadyResolved)
	}

	prev := *round
	round.Status = domain.StatusCancelled
	snapshot := *round
	e.mu.Unlock()

	if err := e.persistRound(ctx, snapshot); err != nil {
		e.mu.Lock()
		*round = prev
		e.mu.Unlock()
		return fmt.Errorf("engine.CancelRound: persist %d: %w", roundID, err)
	}

	slog.Warn("engine: round cancelled", "round", roundID, "previous_status", prev.Status.String())
	return nil
}
