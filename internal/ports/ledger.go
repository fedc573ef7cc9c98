package ports

import (
	"context"

	"github.com/alejandrodnm/predictbet/internal/domain"
)

// Ledger es el colaborador externo que mueve valor entre cuentas.
// Transfer es atómica, todo-o-nada: un error significa que ningún fondo
// se movió. El engine nunca observa transferencias parciales.
type Ledger interface {
	// Transfer mueve amount de from a to. Devuelve error si la cuenta
	// origen no tiene saldo o el ledger rechaza la operación.
	Transfer(ctx context.Context, from, to domain.Account, amount uint64) error
}
