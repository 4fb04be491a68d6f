package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int           `env:"PORT" envDefault:"8080"`
	DatabasePath  string        `env:"DATABASE_PATH" envDefault:"./notewise.db"`
	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN" envDefault:"http://localhost:3000"`
	StatsInterval time.Duration `env:"STATS_INTERVAL" envDefault:"1m"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment, loading a .env file first
// when one is present in the working directory.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}
