package storage

// sqlite.go — persistencia de rondas, apuestas y estado del engine.
//
// Estrategia:
//   - Registros completos por upsert tras cada mutación: el engine es
//     la fuente de verdad en memoria y el snapshot durable la replica.
//   - `engine_state`: una única fila (id=1) con contadores globales.
//   - Las rondas nunca se borran: histórico completo para auditoría y
//     claims tardíos.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alejandrodnm/predictbet/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Registro global del engine, una sola fila
CREATE TABLE IF NOT EXISTS engine_state (
    id             INTEGER PRIMARY KEY CHECK (id = 1),
    authority      TEXT    NOT NULL,
    oracle         TEXT    NOT NULL,
    treasury       TEXT    NOT NULL,
    fee_percent    INTEGER NOT NULL,
    rounds_created INTEGER NOT NULL DEFAULT 0,
    total_volume   INTEGER NOT NULL DEFAULT 0
);

-- Una fila por ronda, retenida para siempre
CREATE TABLE IF NOT EXISTS rounds (
    round_id         INTEGER PRIMARY KEY,
    status           INTEGER NOT NULL,
    entry_price      INTEGER NOT NULL DEFAULT 0,
    settlement_price INTEGER NOT NULL DEFAULT 0,
    created_at       INTEGER NOT NULL,
    betting_deadline INTEGER NOT NULL DEFAULT 0,
    resolution_time  INTEGER NOT NULL DEFAULT 0,
    pool_up          INTEGER NOT NULL DEFAULT 0,
    pool_down        INTEGER NOT NULL DEFAULT 0,
    winner           INTEGER NOT NULL DEFAULT 0
);

-- Una fila por (ronda, apostador)
CREATE TABLE IF NOT EXISTS bets (
    round_id  INTEGER NOT NULL,
    bettor    TEXT    NOT NULL,
    amount    INTEGER NOT NULL,
    direction INTEGER NOT NULL,
    placed_at INTEGER NOT NULL,
    claimed   INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (round_id, bettor)
);

CREATE INDEX IF NOT EXISTS idx_rounds_status ON rounds(status);
CREATE INDEX IF NOT EXISTS idx_bets_round    ON bets(round_id);
`

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y
// aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// SaveState hace upsert de la única fila de estado global.
func (s *SQLiteStorage) SaveState(ctx context.Context, st domain.ProgramState) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engine_state (id, authority, oracle, treasury, fee_percent, rounds_created, total_volume)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			rounds_created = excluded.rounds_created,
			total_volume   = excluded.total_volume`,
		string(st.Authority), string(st.Oracle), string(st.Treasury),
		int64(st.FeePercent), int64(st.RoundsCreated), int64(st.TotalVolume),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveState: %w", err)
	}
	return nil
}

// SaveRound hace upsert de la ronda completa.
func (s *SQLiteStorage) SaveRound(ctx context.Context, r domain.Round) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds (round_id, status, entry_price, settlement_price,
			created_at, betting_deadline, resolution_time, pool_up, pool_down, winner)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(round_id) DO UPDATE SET
			status           = excluded.status,
			entry_price      = excluded.entry_price,
			settlement_price = excluded.settlement_price,
			betting_deadline = excluded.betting_deadline,
			resolution_time  = excluded.resolution_time,
			pool_up          = excluded.pool_up,
			pool_down        = excluded.pool_down,
			winner           = excluded.winner`,
		int64(r.ID), int64(r.Status), int64(r.EntryPrice), int64(r.SettlementPrice),
		r.CreatedAt, r.BettingDeadline, r.ResolutionTime,
		int64(r.PoolUp), int64(r.PoolDown), int64(r.Winner),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveRound: round %d: %w", r.ID, err)
	}
	return nil
}

// SaveBet hace upsert de la apuesta. Amount y direction son inmutables
// en el dominio; el upsert solo actualiza el flag claimed en la práctica.
func (s *SQLiteStorage) SaveBet(ctx context.Context, b domain.Bet) error {
	claimed := 0
	if b.Claimed {
		claimed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bets (round_id, bettor, amount, direction, placed_at, claimed)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(round_id, bettor) DO UPDATE SET
			claimed = excluded.claimed`,
		int64(b.RoundID), string(b.Bettor), int64(b.Amount),
		int64(b.Direction), b.PlacedAt, claimed,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveBet: round %d bettor %s: %w", b.RoundID, b.Bettor, err)
	}
	return nil
}

// LoadState carga la fila de estado global si existe.
func (s *SQLiteStorage) LoadState(ctx context.Context) (domain.ProgramState, bool, error) {
	var (
		st                              domain.ProgramState
		authority, oracle, treasury     string
		fee, roundsCreated, totalVolume int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT authority, oracle, treasury, fee_percent, rounds_created, total_volume
		FROM engine_state WHERE id = 1`,
	).Scan(&authority, &oracle, &treasury, &fee, &roundsCreated, &totalVolume)
	if err == sql.ErrNoRows {
		return st, false, nil
	}
	if err != nil {
		return st, false, fmt.Errorf("storage.LoadState: %w", err)
	}

	st.Authority = domain.Account(authority)
	st.Oracle = domain.Account(oracle)
	st.Treasury = domain.Account(treasury)
	st.FeePercent = uint8(fee)
	st.RoundsCreated = uint64(roundsCreated)
	st.TotalVolume = uint64(totalVolume)
	return st, true, nil
}

// LoadRounds devuelve todas las rondas ordenadas por ID.
func (s *SQLiteStorage) LoadRounds(ctx context.Context) ([]domain.Round, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round_id, status, entry_price, settlement_price,
			created_at, betting_deadline, resolution_time, pool_up, pool_down, winner
		FROM rounds ORDER BY round_id`)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadRounds: %w", err)
	}
	defer rows.Close()

	var out []domain.Round
	for rows.Next() {
		var (
			r                                  domain.Round
			id, status, entry, settlement      int64
			createdAt, deadline, resolution    int64
			poolUp, poolDown, winner           int64
		)
		if err := rows.Scan(&id, &status, &entry, &settlement,
			&createdAt, &deadline, &resolution, &poolUp, &poolDown, &winner); err != nil {
			return nil, fmt.Errorf("storage.LoadRounds: scan: %w", err)
		}
		r.ID = uint64(id)
		r.Status = domain.RoundStatus(status)
		r.EntryPrice = uint64(entry)
		r.SettlementPrice = uint64(settlement)
		r.CreatedAt = createdAt
		r.BettingDeadline = deadline
		r.ResolutionTime = resolution
		r.PoolUp = uint64(poolUp)
		r.PoolDown = uint64(poolDown)
		r.Winner = domain.Outcome(winner)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadBets devuelve todas las apuestas.
func (s *SQLiteStorage) LoadBets(ctx context.Context) ([]domain.Bet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round_id, bettor, amount, direction, placed_at, claimed
		FROM bets ORDER BY round_id, placed_at, bettor`)
	if err != nil {
		return nil, fmt.Errorf("storage.LoadBets: %w", err)
	}
	defer rows.Close()

	var out []domain.Bet
	for rows.Next() {
		var (
			b                           domain.Bet
			roundID, amount, direction  int64
			placedAt, claimed           int64
			bettor                      string
		)
		if err := rows.Scan(&roundID, &bettor, &amount, &direction, &placedAt, &claimed); err != nil {
			return nil, fmt.Errorf("storage.LoadBets: scan: %w", err)
		}
		b.RoundID = uint64(roundID)
		b.Bettor = domain.Account(bettor)
		b.Amount = uint64(amount)
		b.Direction = domain.Direction(direction)
		b.PlacedAt = placedAt
		b.Claimed = claimed != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

// Close cierra la conexión a la base de datos limpiamente.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
