package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, populated from the environment.
type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string        `env:"DATABASE_URL"`
	CacheTTL    time.Duration `env:"SALLYPORT_CACHE_TTL" envDefault:"1h"`
	NoCache     bool          `env:"SALLYPORT_NO_CACHE"`
	SigningKey  string        `env:"SALLYPORT_SIGNING_KEY"`
	LevelsPath  string        `env:"SALLYPORT_LEVELS_PATH"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
