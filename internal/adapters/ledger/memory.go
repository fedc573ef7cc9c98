// Package ledger implementa el puerto de ledger en memoria: saldos por
// cuenta y transferencias atómicas. Sirve para la simulación local y
// los tests; en producción el puerto lo cubre el sistema de liquidación
// externo.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/google/uuid"
)

// ErrInsufficientFunds se devuelve cuando la cuenta origen no cubre el
// monto. La transferencia no tiene ningún efecto.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Transfer es el registro de una transferencia completada, con una
// referencia única para auditoría.
type Transfer struct {
	Ref    string
	From   domain.Account
	To     domain.Account
	Amount uint64
}

// Memory es un ledger en memoria. Todas las operaciones son atómicas
// bajo un mutex; un error significa que no se movió nada.
type Memory struct {
	mu       sync.Mutex
	balances map[domain.Account]uint64
	journal  []Transfer
	failWith error // si está seteado, la próxima Transfer falla con él
}

// NewMemory crea el ledger con los saldos iniciales dados.
func NewMemory(initial map[domain.Account]uint64) *Memory {
	balances := make(map[domain.Account]uint64, len(initial))
	for acc, bal := range initial {
		balances[acc] = bal
	}
	return &Memory{balances: balances}
}

// Transfer mueve amount de from a to, todo o nada.
func (m *Memory) Transfer(ctx context.Context, from, to domain.Account, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		err := m.failWith
		m.failWith = nil
		return err
	}

	if m.balances[from] < amount {
		return fmt.Errorf("ledger: %s has %d, needs %d: %w",
			from, m.balances[from], amount, ErrInsufficientFunds)
	}

	m.balances[from] -= amount
	m.balances[to] += amount
	m.journal = append(m.journal, Transfer{
		Ref:    uuid.NewString(),
		From:   from,
		To:     to,
		Amount: amount,
	})
	return nil
}

// Credit abona saldo a una cuenta sin pasar por el journal. Para
// fondear cuentas de simulación.
func (m *Memory) Credit(acc domain.Account, amount uint64) {
	m.mu.Lock()
	m.balances[acc] += amount
	m.mu.Unlock()
}

// Balance devuelve el saldo actual de una cuenta.
func (m *Memory) Balance(acc domain.Account) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[acc]
}

// Journal devuelve una copia del historial de transferencias.
func (m *Memory) Journal() []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transfer, len(m.journal))
	copy(out, m.journal)
	return out
}

// FailNext hace que la próxima Transfer falle con err, sin efectos.
// Para probar que el engine aborta limpio ante fallos del ledger.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	m.failWith = err
	m.mu.Unlock()
}
