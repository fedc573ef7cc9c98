package main

// simulate.go — harness de simulación local.
//
// Apostadores sintéticos con saldo en el ledger en memoria apuestan
// contra cada ronda que abre el scheduler; al resolverse, los ganadores
// reclaman y el desenlace se imprime por consola. El engine no sabe que
// es una simulación: pasa por las mismas validaciones y transferencias
// que con colaboradores reales.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/predictbet/config"
	"github.com/alejandrodnm/predictbet/internal/adapters/ledger"
	"github.com/alejandrodnm/predictbet/internal/application/engine"
	"github.com/alejandrodnm/predictbet/internal/domain"
	"github.com/alejandrodnm/predictbet/internal/ports"
)

func runSimulation(
	ctx context.Context,
	cfg *config.Config,
	eng *engine.Engine,
	book *ledger.Memory,
	feed ports.PriceFeed,
	clk ports.Clock,
	notifier ports.Notifier,
) error {
	bettors := make([]domain.Account, cfg.Sim.Bettors)
	for i := range bettors {
		bettors[i] = domain.Account(fmt.Sprintf("bettor-%02d", i+1))
		book.Credit(bettors[i], cfg.Sim.InitialBalance)
	}

	// Limita el ritmo global de admisión, como el limiter de API del
	// cliente real.
	limiter := rate.NewLimiter(rate.Limit(cfg.Sim.BetsPerSecond), 1)

	sched := engine.NewScheduler(eng, feed, clk, engine.SchedulerConfig{
		SettlingPause: cfg.SettlingPause(),
		Rounds:        cfg.Sim.Rounds,
	})

	sched.Subscribe(func(r domain.Round) {
		switch r.Status {
		case domain.StatusBetting:
			go placeBets(ctx, eng, r, bettors, cfg.Sim, limiter)
		case domain.StatusResolved:
			settleRound(ctx, eng, r, notifier)
		}
	})

	if err := sched.Run(ctx); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	st := eng.State()
	slog.Info("simulation finished",
		"rounds_created", st.RoundsCreated,
		"total_volume", st.TotalVolume,
		"treasury_balance", book.Balance(st.Treasury),
	)
	return nil
}

// placeBets hace que cada apostador ponga como máximo una apuesta en la
// ronda, con stake y dirección aleatorios, hasta que cierre la ventana.
func placeBets(
	ctx context.Context,
	eng *engine.Engine,
	round domain.Round,
	bettors []domain.Account,
	cfg config.SimConfig,
	limiter *rate.Limiter,
) {
	rng := rand.New(rand.NewSource(int64(round.ID) * 7919))

	for _, bettor := range bettors {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		stake := cfg.MinStake + uint64(rng.Int63n(int64(cfg.MaxStake-cfg.MinStake+1)))
		direction := domain.DirectionUp
		if rng.Intn(2) == 1 {
			direction = domain.DirectionDown
		}

		err := eng.PlaceBet(ctx, round.ID, bettor, stake, direction)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrBettingClosed), errors.Is(err, domain.ErrRoundNotBetting):
			return // la ronda cerró mientras apostábamos
		default:
			slog.Warn("sim: bet rejected", "round", round.ID, "bettor", bettor, "err", err)
		}
	}
}

// settleRound reclama en nombre de cada ganador y presenta el reporte.
func settleRound(ctx context.Context, eng *engine.Engine, round domain.Round, notifier ports.Notifier) {
	bets := eng.BetsForRound(round.ID)

	outcomes := make([]domain.BetOutcome, 0, len(bets))
	for _, b := range bets {
		out := domain.BetOutcome{Bet: b, Won: round.Winner.Matches(b.Direction)}
		if out.Won {
			payout, err := eng.Claim(ctx, round.ID, b.Bettor)
			if err != nil {
				slog.Warn("sim: claim failed", "round", round.ID, "bettor", b.Bettor, "err", err)
			} else {
				out.Payout = payout
				out.Bet.Claimed = true
			}
		}
		outcomes = append(outcomes, out)
	}

	if err := notifier.RoundSettled(ctx, domain.RoundReport{Round: round, Outcomes: outcomes}); err != nil {
		slog.Warn("sim: notifier error", "err", err)
	}
}
