package domain

import "errors"

// Errores de precondición del engine. Todos son valores enumerables:
// el caller los distingue con errors.Is y ninguno es reintentable sin
// cambiar la entrada.
var (
	ErrDuplicateRound    = errors.New("round id already exists")
	ErrRoundNotFound     = errors.New("round not found")
	ErrRoundNotWaiting   = errors.New("round is not waiting to open")
	ErrRoundNotBetting   = errors.New("round is not accepting bets")
	ErrBettingClosed     = errors.New("betting deadline has passed")
	ErrDuplicateBet      = errors.New("bettor already has a bet on this round")
	ErrInvalidAmount     = errors.New("bet amount must be positive")
	ErrInvalidDirection  = errors.New("direction must be up or down")
	ErrTooEarlyToResolve = errors.New("round resolution time not reached")
	ErrAlreadyResolved   = errors.New("round already settled")
	ErrRoundNotResolved  = errors.New("round not resolved")
	ErrBetNotFound       = errors.New("no bet for this round and bettor")
	ErrNotAWinner        = errors.New("bet is not on the winning direction")
	ErrAlreadyClaimed    = errors.New("winnings already claimed")
	ErrUnauthorized      = errors.New("caller not authorized")
	ErrInvalidFee        = errors.New("fee percent must be between 0 and 100")
)

// ErrStateDiverged señala el único fallo fatal del engine: una
// transferencia del ledger se completó pero la persistencia del registro
// asociado falló. El estado en memoria sigue siendo correcto, pero el
// snapshot durable ya no refleja los fondos movidos.
var ErrStateDiverged = errors.New("ledger transfer committed but state persistence failed")
