package engine

// claim.go — reclamo de pagos, exactamente una vez por apuesta ganadora.
//
// Orden de commit: el flag claimed se asienta (memoria + storage) antes
// de pedir la transferencia. Un fallo limpio de la transferencia
// revierte el flag y aborta; el contrato del ledger garantiza que fallo
// ≠ éxito parcial, así que la reversión es segura. Un crash entre el
// asiento y la transferencia deja la apuesta marcada sin pagar:
// at-most-once, nunca doble pago.

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// Claim paga a un ganador su parte del pool perdedor más su stake.
// Reintentarlo tras un éxito falla con ErrAlreadyClaimed sin segunda
// transferencia; una apuesta perdedora falla siempre con ErrNotAWinner.
// Devuelve el monto pagado.
func (e *Engine) Claim(ctx context.Context, roundID uint64, bettor domain.Account) (uint64, error) {
	lock, err := e.lockRound(roundID)
	if err != nil {
		return 0, fmt.Errorf("engine.Claim: round %d: %w", roundID, err)
	}
	lock.Lock()
	defer lock.Unlock()

	key := betKey{roundID, bettor}

	e.mu.Lock()
	round, ok := e.rounds[roundID]
	if !ok {
		e.mu.Unlock()
		return 0, fmt.Errorf("engine.Claim: round %d: %w", roundID, domain.ErrRoundNotFound)
	}
	if round.Status != domain.StatusResolved {
		status := round.Status
		e.mu.Unlock()
		return 0, fmt.Errorf("engine.Claim: round %d is %s: %w", roundID, status, domain.ErrRoundNotResolved)
	}
	bet, ok := e.bets[key]
	switch {
	case !ok:
		e.mu.Unlock()
		return 0, fmt.Errorf("engine.Claim: round %d bettor %s: %w", roundID, bettor, domain.ErrBetNotFound)
	case bet.Claimed:
		e.mu.Unlock()
		return 0, fmt.Errorf("engine.Claim: round %d bettor %s: %w", roundID, bettor, domain.ErrAlreadyClaimed)
	case !round.Winner.Matches(bet.Direction):
		e.mu.Unlock()
		return 0, fmt.Errorf("engine.Claim: round %d bettor %s: %w", roundID, bettor, domain.ErrNotAWinner)
	}

	// Pools congelados desde la resolución: el denominador es estable
	// para todos los claims de la ronda.
	payout := domain.Payout(bet.Amount, round.WinningPool(), round.LosingPool(), e.state.FeePercent)
	treasury := e.state.Treasury
	bet.Claimed = true
	betSnap := *bet
	e.mu.Unlock()

	if err := e.persistBet(ctx, betSnap); err != nil {
		// Aún no hubo transferencia: revertir y fallar sin efectos.
		e.mu.Lock()
		bet.Claimed = false
		e.mu.Unlock()
		return 0, fmt.Errorf("engine.Claim: persist claim flag: %w", err)
	}

	if err := e.ledger.Transfer(ctx, treasury, bettor, payout); err != nil {
		e.mu.Lock()
		bet.Claimed = false
		revert := *bet
		e.mu.Unlock()
		if perr := e.persistBet(ctx, revert); perr != nil {
			slog.Error("engine: claim revert persistence failed",
				"round", roundID, "bettor", bettor, "err", perr)
			return 0, fmt.Errorf("engine.Claim: %w: %w", domain.ErrStateDiverged, perr)
		}
		return 0, fmt.Errorf("engine.Claim: transfer payout: %w", err)
	}

	slog.Info("engine: winnings claimed",
		"round", roundID,
		"bettor", bettor,
		"stake", betSnap.Amount,
		"payout", payout,
	)
	return payout, nil
}
