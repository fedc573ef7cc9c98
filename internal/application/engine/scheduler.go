package engine

// scheduler.go — driver del ciclo de vida de rondas.
//
// Reproduce el round manager del producto: crear, abrir con el precio
// actual del feed, esperar la ventana completa, resolver con el precio
// de liquidación y avisar a los suscriptores, en bucle hasta que el
// contexto se cancele. El engine sigue siendo quien valida todo; el
// scheduler solo aporta el ritmo y los precios.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/alejandrodnm/predictbet/internal/ports"
)

const (
	defaultSettlingPause = 3 * time.Second
	defaultPollInterval  = time.Second
)

// SchedulerConfig controla el ritmo del ciclo de rondas.
type SchedulerConfig struct {
	SettlingPause time.Duration // pausa entre resolver y crear la siguiente
	PollInterval  time.Duration // frecuencia de chequeo del clock inyectado
	Rounds        int           // número de rondas a ejecutar; 0 = sin límite
}

// Scheduler encadena rondas completas contra el engine.
type Scheduler struct {
	eng   *Engine
	feed  ports.PriceFeed
	clock ports.Clock
	cfg   SchedulerConfig

	mu   sync.Mutex
	subs []func(domain.Round)
	next uint64
}

// NewScheduler crea el driver. El siguiente roundID continúa desde el
// contador global, de modo que un engine restaurado no repite IDs.
func NewScheduler(eng *Engine, feed ports.PriceFeed, clock ports.Clock, cfg SchedulerConfig) *Scheduler {
	if cfg.SettlingPause <= 0 {
		cfg.SettlingPause = defaultSettlingPause
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Scheduler{
		eng:   eng,
		feed:  feed,
		clock: clock,
		cfg:   cfg,
		next:  eng.State().RoundsCreated + 1,
	}
}

// Subscribe registra un callback que recibe la ronda tras abrirse y
// tras resolverse. Los callbacks corren en la goroutine del scheduler.
func (s *Scheduler) Subscribe(fn func(domain.Round)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Scheduler) notify(r domain.Round) {
	s.mu.Lock()
	subs := make([]func(domain.Round), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(r)
	}
}

func (s *Scheduler) nextID() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	return id
}

// Run encadena rondas hasta agotar cfg.Rounds o cancelar el contexto.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"rounds", s.cfg.Rounds,
		"settling_pause", s.cfg.SettlingPause,
	)

	for done := 0; s.cfg.Rounds == 0 || done < s.cfg.Rounds; done++ {
		if _, err := s.RunRound(ctx); err != nil {
			if ctx.Err() != nil {
				slog.Info("scheduler stopped")
				return nil
			}
			return fmt.Errorf("scheduler.Run: round cycle: %w", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return nil
		case <-time.After(s.cfg.SettlingPause):
		}
	}
	return nil
}

// RunRound ejecuta un ciclo completo: create → open → wait → resolve.
// Devuelve la ronda ya resuelta.
func (s *Scheduler) RunRound(ctx context.Context) (domain.Round, error) {
	st := s.eng.State()
	id := s.nextID()

	if err := s.eng.CreateRound(ctx, st.Authority, id); err != nil {
		return domain.Round{}, fmt.Errorf("scheduler.RunRound: create %d: %w", id, err)
	}

	entry, err := s.feed.Current(ctx)
	if err != nil {
		return domain.Round{}, fmt.Errorf("scheduler.RunRound: entry price: %w", err)
	}
	if err := s.eng.OpenRound(ctx, st.Authority, id, entry); err != nil {
		return domain.Round{}, fmt.Errorf("scheduler.RunRound: open %d: %w", id, err)
	}

	round, err := s.eng.Round(id)
	if err != nil {
		return domain.Round{}, err
	}
	s.notify(round)

	if err := s.waitUntil(ctx, round.ResolutionTime); err != nil {
		return domain.Round{}, err
	}

	settlement, err := s.feed.Current(ctx)
	if err != nil {
		return domain.Round{}, fmt.Errorf("scheduler.RunRound: settlement price: %w", err)
	}
	// Resuelve el oráculo, no la autoridad: los dos roles están
	// autorizados pero son identidades potencialmente distintas.
	if err := s.eng.ResolveRound(ctx, st.Oracle, id, settlement); err != nil {
		return domain.Round{}, fmt.Errorf("scheduler.RunRound: resolve %d: %w", id, err)
	}

	round, err = s.eng.Round(id)
	if err != nil {
		return domain.Round{}, err
	}
	s.notify(round)
	return round, nil
}

// waitUntil bloquea hasta que el clock inyectado alcance ts o el
// contexto se cancele. Sondea en vez de dormir el intervalo completo
// porque el clock puede no avanzar al ritmo del tiempo real.
func (s *Scheduler) waitUntil(ctx context.Context, ts int64) error {
	if s.clock.Now() >= ts {
		return nil
	}
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.clock.Now() >= ts {
				return nil
			}
		}
	}
}
