package engine

// registry.go — creación y apertura de rondas.
//
// Flujo elegido: create-then-open. CreateRound deja la ronda en Waiting
// con entry_price sin fijar; OpenRound registra el precio de entrada y
// arranca las dos ventanas desde ese instante. Llamar a ambas seguidas
// da el flujo create-already-open.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// CreateRound registra una ronda nueva en estado Waiting. Solo la
// autoridad puede crear rondas; un roundID repetido falla con
// ErrDuplicateRound sin tocar nada.
func (e *Engine) CreateRound(ctx context.Context, caller domain.Account, roundID uint64) error {
	e.mu.Lock()
	if !e.state.CanAdminister(caller) {
		e.mu.Unlock()
		return fmt.Errorf("engine.CreateRound: caller %s: %w", caller, domain.ErrUnauthorized)
	}
	if _, ok := e.rounds[roundID]; ok {
		e.mu.Unlock()
		return fmt.Errorf("engine.CreateRound: %d: %w", roundID, domain.ErrDuplicateRound)
	}

	round := &domain.Round{
		ID:        roundID,
		Status:    domain.StatusWaiting,
		CreatedAt: e.clock.Now(),
		Winner:    domain.OutcomeUnset,
	}
	e.rounds[roundID] = round
	e.locks[roundID] = &sync.Mutex{}
	e.state.RoundsCreated++
	st := e.state
	snapshot := *round
	e.mu.Unlock()

	err := e.persistRound(ctx, snapshot)
	if err == nil {
		err = e.persistState(ctx, st)
	}
	if err != nil {
		// La creación no tuvo efectos externos: fallo de persistencia
		// equivale a operación no ocurrida.
		e.mu.Lock()
		delete(e.rounds, roundID)
		delete(e.locks, roundID)
		e.state.RoundsCreated--
		e.mu.Unlock()
		return fmt.Errorf("engine.CreateRound: persist %d: %w", roundID, err)
	}

	slog.Debug("engine: round created", "round", roundID)
	return nil
}

// OpenRound fija el precio de entrada y abre la admisión de apuestas.
// Las ventanas de deadline y resolución arrancan en el Now de la
// apertura, no en el de la creación.
func (e *Engine) OpenRound(ctx context.Context, caller domain.Account, roundID, entryPrice uint64) error {
	if !e.State().CanAdminister(caller) {
		return fmt.Errorf("engine.OpenRound: caller %s: %w", caller, domain.ErrUnauthorized)
	}

	lock, err := e.lockRound(roundID)
	if err != nil {
		return fmt.Errorf("engine.OpenRound: %d: %w", roundID, err)
	}
	lock.Lock()
	defer lock.Unlock()

	e.mu.Lock()
	round, ok := e.rounds[roundID]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("engine.OpenRound: %d: %w", roundID, domain.ErrRoundNotFound)
	}
	if round.Status != domain.StatusWaiting {
		status := round.Status
		e.mu.Unlock()
		return fmt.Errorf("engine.OpenRound: %d is %s: %w", roundID, status, domain.ErrRoundNotWaiting)
	}

	now := e.clock.Now()
	prev := *round
	round.EntryPrice = entryPrice
	round.BettingDeadline = now + e.cfg.BettingWindow
	round.ResolutionTime = now + e.cfg.TotalWindow
	round.Status = domain.StatusBetting
	snapshot := *round
	e.mu.Unlock()

	if err := e.persistRound(ctx, snapshot); err != nil {
		e.mu.Lock()
		*round = prev
		e.mu.Unlock()
		return fmt.Errorf("engine.OpenRound: persist round %d: %w", roundID, err)
	}

	slog.Info("engine: round open",
		"round", roundID,
		"entry_price", entryPrice,
		"betting_deadline", snapshot.BettingDeadline,
		"resolution_time", snapshot.ResolutionTime,
	)
	return nil
}
