package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del engine y su harness.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Accounts AccountsConfig `yaml:"accounts"`
	Feed     FeedConfig     `yaml:"feed"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Sim      SimConfig      `yaml:"sim"`
}

// EngineConfig fija comisión y ventanas de ronda. Inmutable tras
// arrancar el engine.
type EngineConfig struct {
	FeePercent           uint8 `yaml:"fee_percent"`            // % del pool perdedor para la casa
	BettingWindowSeconds int64 `yaml:"betting_window_seconds"` // admisión de apuestas tras abrir
	TotalWindowSeconds   int64 `yaml:"total_window_seconds"`   // mínimo hasta poder resolver
}

// AccountsConfig identifica autoridad, oráculo y tesorería.
type AccountsConfig struct {
	Authority string `yaml:"authority"`
	Oracle    string `yaml:"oracle"` // vacío → la autoridad resuelve
	Treasury  string `yaml:"treasury"`
}

// FeedConfig controla el feed simulado de precios.
type FeedConfig struct {
	StartPrice uint64 `yaml:"start_price"` // unidades enteras, p.ej. centavos
	Volatility string `yaml:"volatility"`  // low | medium | high
	Seed       int64  `yaml:"seed"`        // 0 → derivada del instante de arranque
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// SimConfig controla el harness de simulación local.
type SimConfig struct {
	Bettors              int     `yaml:"bettors"`
	InitialBalance       uint64  `yaml:"initial_balance"` // saldo inicial por apostador
	MinStake             uint64  `yaml:"min_stake"`
	MaxStake             uint64  `yaml:"max_stake"`
	BetsPerSecond        float64 `yaml:"bets_per_second"` // ritmo de admisión simulado
	SettlingPauseSeconds int     `yaml:"settling_pause_seconds"`
	Rounds               int     `yaml:"rounds"` // 0 = sin límite
}

// Load carga la configuración desde el archivo YAML y el archivo .env
// si existe. Las variables de entorno sobreescriben las keys que
// correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// Sin archivo: todo por defaults + env.
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// BettingWindow devuelve la ventana de apuestas como time.Duration.
func (c *Config) BettingWindow() time.Duration {
	return time.Duration(c.Engine.BettingWindowSeconds) * time.Second
}

// SettlingPause devuelve la pausa entre rondas como time.Duration.
func (c *Config) SettlingPause() time.Duration {
	return time.Duration(c.Sim.SettlingPauseSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si
// están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("AUTHORITY"); v != "" {
		cfg.Accounts.Authority = v
	}
	if v := os.Getenv("ORACLE"); v != "" {
		cfg.Accounts.Oracle = v
	}
	if v := os.Getenv("TREASURY"); v != "" {
		cfg.Accounts.Treasury = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Engine.FeePercent == 0 {
		cfg.Engine.FeePercent = 5
	}
	if cfg.Engine.BettingWindowSeconds <= 0 {
		cfg.Engine.BettingWindowSeconds = 60
	}
	if cfg.Engine.TotalWindowSeconds <= cfg.Engine.BettingWindowSeconds {
		cfg.Engine.TotalWindowSeconds = cfg.Engine.BettingWindowSeconds * 2
	}
	if cfg.Accounts.Authority == "" {
		cfg.Accounts.Authority = "authority"
	}
	if cfg.Accounts.Treasury == "" {
		cfg.Accounts.Treasury = "treasury"
	}
	if cfg.Feed.StartPrice == 0 {
		cfg.Feed.StartPrice = 73105 // 731.05 en centavos
	}
	if cfg.Feed.Volatility == "" {
		cfg.Feed.Volatility = "medium"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "predictbet.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Sim.Bettors <= 0 {
		cfg.Sim.Bettors = 6
	}
	if cfg.Sim.InitialBalance == 0 {
		cfg.Sim.InitialBalance = 10_000
	}
	if cfg.Sim.MinStake == 0 {
		cfg.Sim.MinStake = 50
	}
	if cfg.Sim.MaxStake <= cfg.Sim.MinStake {
		cfg.Sim.MaxStake = cfg.Sim.MinStake * 10
	}
	if cfg.Sim.BetsPerSecond <= 0 {
		cfg.Sim.BetsPerSecond = 4
	}
	if cfg.Sim.SettlingPauseSeconds <= 0 {
		cfg.Sim.SettlingPauseSeconds = 3
	}
}
