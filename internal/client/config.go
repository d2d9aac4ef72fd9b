package client

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the client reads from the environment. ServerURL
// uses the http(s) scheme; the connection manager derives ws(s) from it.
type Config struct {
	ServerURL string `env:"SERVER_URL" envDefault:"http://localhost:8000"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	HistoryDB string `env:"HISTORY_DB" envDefault:"absurd-client.db"`
}

// LoadConfig parses configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
