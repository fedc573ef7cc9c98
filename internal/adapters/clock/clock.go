// Package clock implementa el puerto de reloj del engine.
package clock

import (
	"sync/atomic"
	"time"
)

// System es el reloj de pared en unix seconds. time.Now es monótono
// no-decreciente a esta granularidad salvo saltos administrativos de
// hora, que el engine tolera como timestamps iguales.
type System struct{}

func NewSystem() *System { return &System{} }

func (*System) Now() int64 { return time.Now().Unix() }

// Manual es un reloj controlado a mano para tests y simulación
// acelerada. Solo avanza cuando se le dice.
type Manual struct {
	now atomic.Int64
}

// NewManual crea un reloj manual arrancando en el instante dado.
func NewManual(start int64) *Manual {
	m := &Manual{}
	m.now.Store(start)
	return m
}

func (m *Manual) Now() int64 { return m.now.Load() }

// Advance avanza el reloj d segundos.
func (m *Manual) Advance(d int64) { m.now.Add(d) }

// Set fija el instante actual. No admite retroceder.
func (m *Manual) Set(ts int64) {
	for {
		cur := m.now.Load()
		if ts <= cur {
			return
		}
		if m.now.CompareAndSwap(cur, ts) {
			return
		}
	}
}
