package domain

import "fmt"

// RoundStatus es el estado de una ronda dentro de su ciclo de vida.
// Transiciones permitidas: Waiting → Betting → Resolved, y Cancelled
// desde Waiting o Betting. Resolved y Cancelled son terminales.
type RoundStatus uint8

const (
	StatusWaiting RoundStatus = iota
	StatusBetting
	StatusResolved
	StatusCancelled
)

func (s RoundStatus) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusBetting:
		return "BETTING"
	case StatusResolved:
		return "RESOLVED"
	case StatusCancelled:
		return "CANCELLED"
	}
	return fmt.Sprintf("RoundStatus(%d)", uint8(s))
}

// Terminal devuelve true si el estado no admite más transiciones.
func (s RoundStatus) Terminal() bool {
	return s == StatusResolved || s == StatusCancelled
}

// Round es una ronda de apuestas con un único resultado binario.
// Los precios son enteros en la unidad que use el feed (p.ej. centavos);
// el engine solo los compara, nunca los interpreta.
type Round struct {
	ID              uint64
	Status          RoundStatus
	EntryPrice      uint64
	SettlementPrice uint64 // 0 hasta que la ronda se resuelve
	CreatedAt       int64  // unix seconds
	BettingDeadline int64  // 0 hasta que la ronda abre
	ResolutionTime  int64  // 0 hasta que la ronda abre
	PoolUp          uint64
	PoolDown        uint64
	Winner          Outcome
}

// BettingOpen devuelve true si la ronda admite apuestas en el instante dado.
func (r Round) BettingOpen(now int64) bool {
	return r.Status == StatusBetting && now < r.BettingDeadline
}

// Resolvable devuelve true si la ronda puede resolverse en el instante dado.
func (r Round) Resolvable(now int64) bool {
	return r.Status == StatusBetting && now >= r.ResolutionTime
}

// Pool devuelve el total apostado a una dirección.
func (r Round) Pool(d Direction) uint64 {
	if d == DirectionUp {
		return r.PoolUp
	}
	return r.PoolDown
}

// WinningPool devuelve el pool de la dirección ganadora. Solo tiene
// sentido en una ronda resuelta.
func (r Round) WinningPool() uint64 {
	switch r.Winner {
	case OutcomeUp:
		return r.PoolUp
	case OutcomeDown:
		return r.PoolDown
	}
	return 0
}

// LosingPool devuelve el pool de la dirección perdedora.
func (r Round) LosingPool() uint64 {
	switch r.Winner {
	case OutcomeUp:
		return r.PoolDown
	case OutcomeDown:
		return r.PoolUp
	}
	return 0
}

// SettleOutcome deriva el resultado a partir del precio de liquidación.
// Desempate fijo: el empate resuelve a DOWN (solo `>` estricto gana UP).
func SettleOutcome(entryPrice, settlementPrice uint64) Outcome {
	if settlementPrice > entryPrice {
		return OutcomeUp
	}
	return OutcomeDown
}
