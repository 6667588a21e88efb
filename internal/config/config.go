// Package config loads the two configuration layers of the server: the
// process environment (logging, optional status API and history archive)
// and the per-match configuration file given on the command line.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from the environment.
type Env struct {
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// StatusAddr enables the HTTP status API when set, e.g. ":8080".
	StatusAddr string `env:"STATUS_ADDR"`

	// HistoryDB enables the match results archive when set to a SQLite path.
	HistoryDB string `env:"HISTORY_DB"`
}

// LoadEnv parses the process environment.
func LoadEnv() (*Env, error) {
	cfg, err := env.ParseAs[Env]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
