// Package config parses environment variables into tagged structs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load fills cfg from the environment using its `env` struct tags, e.g.
//
//	type Config struct {
//	    Port     int           `env:"AUTH_HTTP_PORT" envDefault:"8001"`
//	    LogLevel string        `env:"LOG_LEVEL" envDefault:"info"`
//	    Expiry   time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"1h"`
//	}
//
// cfg must be a pointer to a struct.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
