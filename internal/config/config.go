// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"limitpoker/internal/chips"
)

type Config struct {
	// ListenAddr is the websocket listen address.
	ListenAddr string `env:"LPS_LISTEN_ADDR" env-default:"127.0.0.1:8080"`

	// Tables are created at startup, one per name.
	Tables []string `env:"LPS_TABLES" env-separator:"," env-default:"Main Street"`
	// NumSeats is the seat count per table.
	NumSeats int `env:"LPS_NUM_SEATS" env-default:"9"`

	// Monetary amounts are decimal strings with at most two fractional
	// digits, e.g. "0.02".
	SmallBet      string `env:"LPS_SMALL_BET" env-default:"0.02"`
	BigBet        string `env:"LPS_BIG_BET" env-default:"0.04"`
	StartingChips string `env:"LPS_STARTING_CHIPS" env-default:"10.00"`

	// ActionTimeout bounds a prompted player's thinking time; zero
	// disables it.
	ActionTimeout time.Duration `env:"LPS_ACTION_TIMEOUT" env-default:"30s"`
	TickInterval  time.Duration `env:"LPS_TICK_INTERVAL" env-default:"1s"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if _, _, err := cfg.Bets(); err != nil {
		return nil, err
	}
	if _, err := cfg.Stack(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Bets parses the small and big bet.
func (c *Config) Bets() (small, big chips.Amount, err error) {
	small, err = chips.Parse(c.SmallBet)
	if err != nil {
		return 0, 0, fmt.Errorf("small bet: %w", err)
	}
	big, err = chips.Parse(c.BigBet)
	if err != nil {
		return 0, 0, fmt.Errorf("big bet: %w", err)
	}
	if small <= 0 || big < small {
		return 0, 0, fmt.Errorf("bets %s/%s out of order", c.SmallBet, c.BigBet)
	}
	return small, big, nil
}

// Stack parses the sit-down buy-in.
func (c *Config) Stack() (chips.Amount, error) {
	stack, err := chips.Parse(c.StartingChips)
	if err != nil {
		return 0, fmt.Errorf("starting chips: %w", err)
	}
	if stack <= 0 {
		return 0, fmt.Errorf("starting chips %s must be positive", c.StartingChips)
	}
	return stack, nil
}
