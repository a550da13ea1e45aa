package model

import (
	"runtime"
	"time"
)

// Config holds every tunable of the CLI. The phrase scoring constants are
// deliberately absent: they are fixed.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Share        ShareConfig        `yaml:"share" mapstructure:"share"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// CacheConfig controls in-process memoization of analyses
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	Workers      int `yaml:"workers" mapstructure:"workers"`             // Files analyzed in parallel by batch
	StatsWorkers int `yaml:"stats_workers" mapstructure:"stats_workers"` // Parallel counting; 1 counts sequentially
}

// RateLimitingConfig throttles batch reads per source directory
type RateLimitingConfig struct {
	FilesPerSecond float64         `yaml:"files_per_second" mapstructure:"files_per_second"` // 0 leaves unlisted directories unthrottled
	BurstSize      int             `yaml:"burst_size" mapstructure:"burst_size"`
	Directories    []DirRateConfig `yaml:"directories,omitempty" mapstructure:"directories"`
}

// DirRateConfig overrides the read rate for one directory. Paths are kept
// as a list rather than map keys so dots and case survive config loading.
type DirRateConfig struct {
	Path           string  `yaml:"path" mapstructure:"path"`
	FilesPerSecond float64 `yaml:"files_per_second" mapstructure:"files_per_second"`
	BurstSize      int     `yaml:"burst_size" mapstructure:"burst_size"` // 0 uses rate_limiting.burst_size
}

// Enabled reports whether any directory is throttled
func (c RateLimitingConfig) Enabled() bool {
	return c.FilesPerSecond > 0 || len(c.Directories) > 0
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
	Trace         bool `yaml:"trace" mapstructure:"trace"` // Attach per-segment scoring decisions
	Top           int  `yaml:"top" mapstructure:"top"`     // Rows in Markdown tables
}

// ShareConfig controls shareable links
type ShareConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"` // Page the t parameter is appended to; empty gives "?t=..."
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			Workers:      runtime.NumCPU(),
			StatsWorkers: 1,
		},
		RateLimiting: RateLimitingConfig{
			FilesPerSecond: 0,
			BurstSize:      5,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
			Trace:         false,
			Top:           15,
		},
		Share: ShareConfig{
			BaseURL: "",
		},
	}
}
