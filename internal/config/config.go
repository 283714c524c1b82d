// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
	"time"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// BaseURL is the root of the upstream snapshot store.
	BaseURL string `koanf:"base_url"`

	// Source selects the upstream snapshot family: xeet or wallchain.
	Source string `koanf:"source"`

	// LookbackDays bounds the date probe when locating the freshest snapshot.
	LookbackDays int `koanf:"lookback_days"`

	// FetchWorkers sets the size of the snapshot fetch pool.
	FetchWorkers int `koanf:"fetch_workers"`

	// FetchRPS and FetchBurst shape the upstream request rate.
	FetchRPS   float64 `koanf:"fetch_rps"`
	FetchBurst int     `koanf:"fetch_burst"`

	// RequestTimeout bounds a single upstream document fetch.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// TopLimit is the default qualifying rank cutoff for aggregation.
	TopLimit int `koanf:"top_limit"`

	// TopCutoff sets the cohort size for farming analysis.
	TopCutoff int `koanf:"top_cutoff"`

	// GoodRankThreshold marks a rank as good when counting breadth.
	GoodRankThreshold int `koanf:"good_rank_threshold"`

	// MaxPageSize caps the per_page query parameter on listing endpoints.
	MaxPageSize int `koanf:"max_page_size"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		BaseURL:           "https://pages.novee.fun",
		Source:            "xeet",
		LookbackDays:      7,
		FetchWorkers:      runtime.NumCPU() * 4,
		FetchRPS:          20,
		FetchBurst:        40,
		RequestTimeout:    10 * time.Second,
		TopLimit:          100,
		TopCutoff:         50,
		GoodRankThreshold: 300,
		MaxPageSize:       200,
	}
	return c
}
