package grok

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultMaxDepth is the default limit on nested template references.
	DefaultMaxDepth = 64

	// logRateLimit is the maximum number of hot-path warnings per second.
	logRateLimit = 10
)

// Option configures an Engine using the functional options pattern.
type Option func(*config)

// config holds internal configuration for the engine.
type config struct {
	logger       *slog.Logger
	metrics      MetricsRecorder
	matchTimeout time.Duration
	ignoreCase   bool
	maxDepth     int
	verifyFields bool
	builtins     []Template
	builtinsSet  bool
}

// defaultConfig returns a config with the engine defaults.
func defaultConfig() *config {
	return &config{
		logger:     discardLogger,
		metrics:    NoopMetrics{},
		ignoreCase: true,
		maxDepth:   DefaultMaxDepth,
	}
}

// applyOptions applies functional options to a config.
func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option values.
func (c *config) validate() error {
	if c.matchTimeout < 0 {
		return fmt.Errorf("match timeout must be non-negative, got %v", c.matchTimeout)
	}
	if c.maxDepth <= 0 {
		return fmt.Errorf("max depth must be positive, got %d", c.maxDepth)
	}
	return nil
}

// WithLogger sets the logger for diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
// Default: NoopMetrics.
func WithMetrics(m MetricsRecorder) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithMatchTimeout bounds the time a single match may take.
// A match that runs out of time is treated as no match.
// Default: 0 (no limit).
func WithMatchTimeout(d time.Duration) Option {
	return func(c *config) {
		c.matchTimeout = d
	}
}

// WithIgnoreCase controls case-insensitive matching of compiled expressions.
// Default: true.
func WithIgnoreCase(ignore bool) Option {
	return func(c *config) {
		c.ignoreCase = ignore
	}
}

// WithMaxDepth limits how deeply templates may reference other templates.
// Default: DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = depth
	}
}

// WithFieldVerification makes Parse check every capture against the
// standalone sub-patterns registered for its field name, dropping captures
// that match none of them.
// Default: false (captures are attributed by position only).
func WithFieldVerification(verify bool) Option {
	return func(c *config) {
		c.verifyFields = verify
	}
}

// WithBuiltins replaces the built-in template library.
// Templates are registered in order; each may reference the ones before it.
// Pass nil to start with no built-ins.
func WithBuiltins(templates []Template) Option {
	return func(c *config) {
		c.builtins = templates
		c.builtinsSet = true
	}
}
