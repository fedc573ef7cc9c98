package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/predictbet/config"
	"github.com/alejandrodnm/predictbet/internal/adapters/clock"
	"github.com/alejandrodnm/predictbet/internal/adapters/ledger"
	"github.com/alejandrodnm/predictbet/internal/adapters/notify"
	"github.com/alejandrodnm/predictbet/internal/adapters/pricefeed"
	"github.com/alejandrodnm/predictbet/internal/adapters/storage"
	"github.com/alejandrodnm/predictbet/internal/application/engine"
	"github.com/alejandrodnm/predictbet/internal/domain"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	rounds := flag.Int("rounds", 0, "number of rounds to simulate (0 = until interrupted, overrides config)")
	history := flag.Bool("history", false, "print persisted round history and exit")
	table := flag.Bool("table", false, "print full per-round bet tables (default: compact 1-line)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *rounds > 0 {
		cfg.Sim.Rounds = *rounds
	}
	setupLogger(cfg.Log)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	console := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history {
		printHistory(ctx, store, console, cfg.Engine.FeePercent)
		return
	}

	slog.Info("predictbet starting",
		"config", *configPath,
		"fee_percent", cfg.Engine.FeePercent,
		"betting_window", cfg.BettingWindow(),
		"rounds", cfg.Sim.Rounds,
	)

	sysClock := clock.NewSystem()

	book := ledger.NewMemory(nil)
	eng, err := engine.New(engine.Config{
		Authority:     domain.Account(cfg.Accounts.Authority),
		Oracle:        domain.Account(cfg.Accounts.Oracle),
		Treasury:      domain.Account(cfg.Accounts.Treasury),
		FeePercent:    cfg.Engine.FeePercent,
		BettingWindow: cfg.Engine.BettingWindowSeconds,
		TotalWindow:   cfg.Engine.TotalWindowSeconds,
	}, sysClock, book, store)
	if err != nil {
		slog.Error("failed to build engine", "err", err)
		os.Exit(1)
	}
	if err := eng.Restore(ctx); err != nil {
		slog.Error("failed to restore engine state", "err", err)
		os.Exit(1)
	}

	seed := cfg.Feed.Seed
	if seed == 0 {
		seed = time.Now().Unix()
	}
	feed := pricefeed.NewSimulated(cfg.Feed.StartPrice, pricefeed.Volatility(cfg.Feed.Volatility), seed)

	if err := runSimulation(ctx, cfg, eng, book, feed, sysClock, console); err != nil {
		slog.Error("simulation exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("predictbet stopped cleanly")
}

// printHistory reconstruye los reportes desde el storage y los imprime.
func printHistory(ctx context.Context, store *storage.SQLiteStorage, console *notify.Console, feePercent uint8) {
	roundsList, err := store.LoadRounds(ctx)
	if err != nil {
		slog.Error("failed to load rounds", "err", err)
		os.Exit(1)
	}
	bets, err := store.LoadBets(ctx)
	if err != nil {
		slog.Error("failed to load bets", "err", err)
		os.Exit(1)
	}

	byRound := make(map[uint64][]domain.Bet)
	for _, b := range bets {
		byRound[b.RoundID] = append(byRound[b.RoundID], b)
	}

	reports := make([]domain.RoundReport, 0, len(roundsList))
	for _, r := range roundsList {
		rep := domain.RoundReport{Round: r}
		for _, b := range byRound[r.ID] {
			out := domain.BetOutcome{Bet: b, Won: r.Winner.Matches(b.Direction)}
			if out.Won && b.Claimed {
				out.Payout = domain.Payout(b.Amount, r.WinningPool(), r.LosingPool(), feePercent)
			}
			rep.Outcomes = append(rep.Outcomes, out)
		}
		reports = append(reports, rep)
	}

	console.PrintHistory(reports)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
