package domain

import "fmt"

// Direction es el lado de una apuesta: el precio sube o baja.
type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionDown
)

// Valid devuelve true si la dirección es una de las dos permitidas.
func (d Direction) Valid() bool {
	switch d {
	case DirectionUp, DirectionDown:
		return true
	}
	return false
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "UP"
	case DirectionDown:
		return "DOWN"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Outcome es el resultado de una ronda: sin resolver, o una de las dos
// direcciones. Separado de Direction para que "sin resolver" sea
// irrepresentable en una apuesta pero explícito en una ronda.
type Outcome uint8

const (
	OutcomeUnset Outcome = iota
	OutcomeUp
	OutcomeDown
)

// Matches devuelve true si la dirección de una apuesta coincide con el
// resultado. Un Outcome sin resolver no coincide con ninguna dirección.
func (o Outcome) Matches(d Direction) bool {
	switch o {
	case OutcomeUp:
		return d == DirectionUp
	case OutcomeDown:
		return d == DirectionDown
	}
	return false
}

func (o Outcome) String() string {
	switch o {
	case OutcomeUp:
		return "UP"
	case OutcomeDown:
		return "DOWN"
	case OutcomeUnset:
		return "-"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}
