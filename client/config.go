package client

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the connection settings a Transport implementation needs
// to reach the remote API.
type Config struct {
	Endpoint string        `env:"WIREMAP_ENDPOINT"`
	Key      string        `env:"WIREMAP_API_KEY"`
	Secret   string        `env:"WIREMAP_API_SECRET"`
	Timeout  time.Duration `env:"WIREMAP_TIMEOUT" envDefault:"30s"`
}

// ConfigFromEnv reads Config from the process environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
