package ports

import (
	"context"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// Storage persiste rondas, apuestas y el estado global del engine para
// auditoría y rearranque. Las escrituras son upserts: el engine guarda
// el registro completo tras cada mutación.
type Storage interface {
	// SaveState persiste el registro global (identidades y contadores).
	SaveState(ctx context.Context, st domain.ProgramState) error

	// SaveRound hace upsert de una ronda por su ID.
	SaveRound(ctx context.Context, r domain.Round) error

	// SaveBet hace upsert de una apuesta por (ronda, apostador).
	SaveBet(ctx context.Context, b domain.Bet) error

	// LoadState carga el registro global. ok es false si nunca se guardó.
	LoadState(ctx context.Context) (st domain.ProgramState, ok bool, err error)

	// LoadRounds devuelve todas las rondas persistidas, ordenadas por ID.
	LoadRounds(ctx context.Context) ([]domain.Round, error)

	// LoadBets devuelve todas las apuestas persistidas.
	LoadBets(ctx context.Context) ([]domain.Bet, error)

	// Close cierra la conexión limpiamente.
	Close() error
}
