// Package config holds the daemon configuration, populated from WORKTIME_*
// environment variables with sensible defaults for a single-user setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DBPath           string        `envconfig:"DB_PATH"`
	SpoolDir         string        `envconfig:"SPOOL_DIR"`
	ListenAddr       string        `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8723"`
	IdleThreshold    time.Duration `envconfig:"IDLE_THRESHOLD" default:"120s"`
	FlushGranularity time.Duration `envconfig:"FLUSH_GRANULARITY" default:"60s"`
	MergeGap         time.Duration `envconfig:"MERGE_GAP" default:"600s"`
	DailyGoalHours   float64       `envconfig:"DAILY_GOAL_HOURS" default:"6"`
	Timezone         string        `envconfig:"TIMEZONE" default:"Local"`
}

// Load reads the daemon configuration from the environment. Path defaults
// that depend on the home directory are resolved here rather than in struct
// tags.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("worktime", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(home, ".worktime", "sessions.db")
	}
	if cfg.SpoolDir == "" {
		cfg.SpoolDir = filepath.Join(home, ".worktime", "spool")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.IdleThreshold <= 0 {
		return fmt.Errorf("idle threshold must be positive, got %v", c.IdleThreshold)
	}
	if c.FlushGranularity < time.Second {
		return fmt.Errorf("flush granularity must be at least one second, got %v", c.FlushGranularity)
	}
	if c.MergeGap < 0 {
		return fmt.Errorf("merge gap must not be negative, got %v", c.MergeGap)
	}
	if c.DailyGoalHours < 0 || c.DailyGoalHours > 24 {
		return fmt.Errorf("daily goal hours must be between 0 and 24, got %v", c.DailyGoalHours)
	}
	return nil
}
