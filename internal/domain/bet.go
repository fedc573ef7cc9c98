package domain

// Account identifica una cuenta externa: apostador, autoridad, oráculo
// o tesorería. El engine la trata como opaca; la firma y la custodia
// real viven en el colaborador de ledger.
type Account string

// Bet es la apuesta de un participante en una ronda. Identidad compuesta
// (RoundID, Bettor): como máximo una apuesta por cuenta y ronda.
// Amount y Direction son inmutables tras la creación; Claimed pasa a
// true exactamente una vez, cuando el pago se ha emitido.
type Bet struct {
	RoundID   uint64
	Bettor    Account
	Amount    uint64
	Direction Direction
	PlacedAt  int64 // unix seconds
	Claimed   bool
}

// BetOutcome es el resultado de una apuesta en una ronda liquidada,
// usado por los reportes de historial.
type BetOutcome struct {
	Bet    Bet
	Won    bool
	Payout uint64 // 0 si la apuesta perdió o no se ha reclamado
}

// RoundReport agrupa una ronda liquidada con el desenlace de sus
// apuestas para presentarla al usuario.
type RoundReport struct {
	Round    Round
	Outcomes []BetOutcome
}
