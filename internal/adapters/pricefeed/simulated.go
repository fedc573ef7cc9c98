// Package pricefeed implementa el puerto de precios con un paseo
// browniano geométrico sembrado: determinista para una misma semilla,
// con deriva leve al alza y el precio acotado a ±20% del inicial.
package pricefeed

import (
	"context"
	"math"
	"sync"
)

// Volatility controla la amplitud del paso del paseo.
type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

// sigma devuelve la desviación por paso para cada nivel.
func (v Volatility) sigma() float64 {
	switch v {
	case VolatilityLow:
		return 0.001
	case VolatilityHigh:
		return 0.007
	default:
		return 0.003
	}
}

const drift = 0.0001 // sesgo leve al alza por paso

// Simulated genera precios enteros con un GBM discreto. Cada llamada a
// Current avanza un paso.
type Simulated struct {
	mu    sync.Mutex
	rng   lcg
	price float64
	floor float64
	ceil  float64
}

// NewSimulated crea el feed. start es el precio inicial en unidades
// enteras (p.ej. centavos); seed fija la secuencia completa.
func NewSimulated(start uint64, vol Volatility, seed int64) *Simulated {
	p := float64(start)
	return &Simulated{
		rng:   lcg{state: seed, sigma: vol.sigma()},
		price: p,
		floor: p * 0.8,
		ceil:  p * 1.2,
	}
}

// Current avanza el paseo un paso y devuelve el precio resultante.
func (s *Simulated) Current(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shock := s.rng.gaussian()
	s.price += s.price * (drift + s.rng.sigma*shock)

	if s.price < s.floor {
		s.price = s.floor
	}
	if s.price > s.ceil {
		s.price = s.ceil
	}
	if s.price < 1 {
		s.price = 1
	}
	return uint64(math.Round(s.price)), nil
}

// lcg es el generador congruencial lineal del producto original, con
// gaussiana por Box-Muller encima.
type lcg struct {
	state int64
	sigma float64
}

func (l *lcg) next() float64 {
	l.state = (l.state*9301 + 49297) % 233280
	if l.state < 0 {
		l.state += 233280
	}
	return float64(l.state) / 233280
}

func (l *lcg) gaussian() float64 {
	u1 := l.next()
	u2 := l.next()
	if u1 < 1e-9 {
		u1 = 1e-9 // log(0) no definido
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
