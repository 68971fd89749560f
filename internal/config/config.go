// internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL        string   `env:"DATABASE_URL,required,notEmpty"`
	JWTKey             string   `env:"JWT_KEY,required,notEmpty"`
	Port               string   `env:"PORT" envDefault:"8080"`
	RevalidateInterval int      `env:"REVALIDATE_INTERVAL" envDefault:"300"` // в секундах
	RevalidateOnStart  bool     `env:"REVALIDATE_ON_START" envDefault:"true"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	DefaultLang        string   `env:"DEFAULT_LANG" envDefault:"en"`
	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	TokenTTLHours      int      `env:"TOKEN_TTL_HOURS" envDefault:"24"`
}

// LoadConfig читает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RevalidateInterval <= 0 {
		return fmt.Errorf("REVALIDATE_INTERVAL must be positive, got %d", c.RevalidateInterval)
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive, got %d", c.TokenTTLHours)
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}
