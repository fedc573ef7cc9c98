package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/alejandrodnm/predictbet/internal/ports"
)

const (
	// Ventanas por defecto de una ronda, en segundos desde la apertura.
	DefaultBettingWindow int64 = 60
	DefaultTotalWindow   int64 = 120
)

// Config contiene la configuración inmutable del engine, fijada en New.
type Config struct {
	Authority  domain.Account
	Oracle     domain.Account // vacío → Authority resuelve también
	Treasury   domain.Account
	FeePercent uint8 // comisión sobre el pool perdedor, 0–100

	BettingWindow int64 // segundos de admisión de apuestas tras abrir
	TotalWindow   int64 // segundos hasta poder resolver tras abrir
}

// Engine es el núcleo del sistema: registro de rondas, admisión de
// apuestas, resolución y reclamo de pagos. Cada operación se ejecuta
// como unidad atómica contra el estado compartido: un mutex por ronda
// serializa las mutaciones de esa ronda de principio a fin (incluida la
// transferencia del ledger), y el mutex global solo protege los mapas y
// los contadores del estado global.
type Engine struct {
	cfg    Config
	clock  ports.Clock
	ledger ports.Ledger
	store  ports.Storage // nil → sin persistencia (modo efímero)

	mu     sync.Mutex
	state  domain.ProgramState
	rounds map[uint64]*domain.Round
	bets   map[betKey]*domain.Bet
	locks  map[uint64]*sync.Mutex
}

// betKey es la identidad compuesta de una apuesta.
type betKey struct {
	round  uint64
	bettor domain.Account
}

// New crea el engine con todas las dependencias inyectadas. Equivale a
// la instrucción initialize del programa: fija autoridad, tesorería y
// comisión de forma inmutable. store puede ser nil para un engine
// efímero (tests, simulación sin histórico).
func New(cfg Config, clock ports.Clock, ledger ports.Ledger, store ports.Storage) (*Engine, error) {
	if cfg.Authority == "" {
		return nil, fmt.Errorf("engine.New: authority account required")
	}
	if cfg.Treasury == "" {
		return nil, fmt.Errorf("engine.New: treasury account required")
	}
	if cfg.FeePercent > 100 {
		return nil, fmt.Errorf("engine.New: fee %d: %w", cfg.FeePercent, domain.ErrInvalidFee)
	}
	if cfg.Oracle == "" {
		cfg.Oracle = cfg.Authority
	}
	if cfg.BettingWindow <= 0 {
		cfg.BettingWindow = DefaultBettingWindow
	}
	if cfg.TotalWindow <= cfg.BettingWindow {
		cfg.TotalWindow = DefaultTotalWindow
		if cfg.TotalWindow <= cfg.BettingWindow {
			cfg.TotalWindow = cfg.BettingWindow * 2
		}
	}

	return &Engine{
		cfg:    cfg,
		clock:  clock,
		ledger: ledger,
		store:  store,
		state: domain.ProgramState{
			Authority:  cfg.Authority,
			Oracle:     cfg.Oracle,
			Treasury:   cfg.Treasury,
			FeePercent: cfg.FeePercent,
		},
		rounds: make(map[uint64]*domain.Round),
		bets:   make(map[betKey]*domain.Bet),
		locks:  make(map[uint64]*sync.Mutex),
	}, nil
}

// Restore rehidrata el estado desde el storage. Las identidades y la
// comisión de la config mandan: solo se recuperan contadores, rondas y
// apuestas. Llamar antes de operar si el engine tiene persistencia.
func (e *Engine) Restore(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	st, ok, err := e.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("engine.Restore: load state: %w", err)
	}

	rounds, err := e.store.LoadRounds(ctx)
	if err != nil {
		return fmt.Errorf("engine.Restore: load rounds: %w", err)
	}
	bets, err := e.store.LoadBets(ctx)
	if err != nil {
		return fmt.Errorf("engine.Restore: load bets: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if ok {
		e.state.RoundsCreated = st.RoundsCreated
		e.state.TotalVolume = st.TotalVolume
	}
	for _, r := range rounds {
		round := r
		e.rounds[r.ID] = &round
		e.locks[r.ID] = &sync.Mutex{}
	}
	for _, b := range bets {
		bet := b
		e.bets[betKey{b.RoundID, b.Bettor}] = &bet
	}
	return nil
}

// State devuelve una copia del registro global.
func (e *Engine) State() domain.ProgramState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Round devuelve una copia de la ronda indicada.
func (e *Engine) Round(id uint64) (domain.Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rounds[id]
	if !ok {
		return domain.Round{}, fmt.Errorf("engine.Round: %d: %w", id, domain.ErrRoundNotFound)
	}
	return *r, nil
}

// Bet devuelve una copia de la apuesta de un participante en una ronda.
func (e *Engine) Bet(roundID uint64, bettor domain.Account) (domain.Bet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.bets[betKey{roundID, bettor}]
	if !ok {
		return domain.Bet{}, fmt.Errorf("engine.Bet: round %d bettor %s: %w",
			roundID, bettor, domain.ErrBetNotFound)
	}
	return *b, nil
}

// BetsForRound devuelve las apuestas de una ronda ordenadas por
// timestamp de admisión y, a igualdad, por cuenta.
func (e *Engine) BetsForRound(roundID uint64) []domain.Bet {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []domain.Bet
	for k, b := range e.bets {
		if k.round == roundID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlacedAt != out[j].PlacedAt {
			return out[i].PlacedAt < out[j].PlacedAt
		}
		return out[i].Bettor < out[j].Bettor
	})
	return out
}

// lockRound devuelve el mutex de la ronda, o error si no existe.
func (e *Engine) lockRound(id uint64) (*sync.Mutex, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[id]
	if !ok {
		return nil, domain.ErrRoundNotFound
	}
	return l, nil
}

// persistRound guarda la ronda si hay storage configurado.
func (e *Engine) persistRound(ctx context.Context, r domain.Round) error {
	if e.store == nil {
		return nil
	}
	return e.store.SaveRound(ctx, r)
}

// persistBet guarda la apuesta si hay storage configurado.
func (e *Engine) persistBet(ctx context.Context, b domain.Bet) error {
	if e.store == nil {
		return nil
	}
	return e.store.SaveBet(ctx, b)
}

// persistState guarda el registro global si hay storage configurado.
func (e *Engine) persistState(ctx context.Context, st domain.ProgramState) error {
	if e.store == nil {
		return nil
	}
	return e.store.SaveState(ctx, st)
}
