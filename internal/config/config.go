package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

type Config struct {
	Addr        string        `env:"AGENTBRIDGE_ADDR" envDefault:":8080"`
	DSN         string        `env:"AGENTBRIDGE_DB_DSN"`
	Fixtures    string        `env:"AGENTBRIDGE_FIXTURES"`
	LogLevel    string        `env:"AGENTBRIDGE_LOG_LEVEL" envDefault:"info"`
	LogLines    int           `env:"AGENTBRIDGE_LOG_LINES" envDefault:"20"`
	CORSOrigins []string      `env:"AGENTBRIDGE_CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	Webhook     WebhookConfig `envPrefix:"AGENTBRIDGE_WEBHOOK_"`
}

type WebhookConfig struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	RetryDelay  time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"5s"`
	DialTimeout time.Duration `env:"DIAL_TIMEOUT" envDefault:"2s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("AGENTBRIDGE_ADDR is required"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("AGENTBRIDGE_LOG_LEVEL: %w", err))
	}
	if c.LogLines < 0 {
		errs = append(errs, errors.New("AGENTBRIDGE_LOG_LINES must not be negative"))
	}
	if c.Webhook.MaxAttempts < 1 {
		errs = append(errs, errors.New("AGENTBRIDGE_WEBHOOK_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Webhook.RetryDelay < 0 || c.Webhook.Timeout <= 0 {
		errs = append(errs, errors.New("AGENTBRIDGE_WEBHOOK_RETRY_DELAY and AGENTBRIDGE_WEBHOOK_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// Level is the parsed log level; Validate guarantees it parses.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
