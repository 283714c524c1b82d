package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if LEAGUELENS_CONFIG is set
//  3. env (prefix LEAGUELENS_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("LEAGUELENS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: LEAGUELENS_ADDR, LEAGUELENS_TOP_LIMIT, ...
	// Map env keys like LEAGUELENS_TOP_LIMIT -> top_limit (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("LEAGUELENS_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "leaguelens_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	}
	if c.Source != "xeet" && c.Source != "wallchain" && c.Source != "global" {
		return fmt.Errorf("%w: source must be xeet, wallchain, or global, got %q", ErrInvalidConfig, c.Source)
	}
	if c.LookbackDays <= 0 {
		return fmt.Errorf("%w: lookback_days must be positive", ErrInvalidConfig)
	}
	if c.TopLimit <= 0 {
		return fmt.Errorf("%w: top_limit must be positive", ErrInvalidConfig)
	}
	if c.TopCutoff <= 0 {
		return fmt.Errorf("%w: top_cutoff must be positive", ErrInvalidConfig)
	}
	if c.FetchWorkers <= 0 {
		return fmt.Errorf("%w: fetch_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
