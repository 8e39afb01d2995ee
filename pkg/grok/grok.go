package grok

import (
	"io"
	"log/slog"

	"golang.org/x/time/rate"
)

// discardLogger is used when no logger is configured.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Engine expands, compiles and matches grok expressions.
// All methods are safe for concurrent use.
type Engine struct {
	cfg     *config
	logger  *slog.Logger
	metrics MetricsRecorder
	limiter *rate.Limiter
	store   *store
	cache   *cache
}

// New creates an engine seeded with the built-in templates.
// Returns an error if an option value is invalid.
func New(opts ...Option) (*Engine, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     cfg,
		logger:  cfg.logger,
		metrics: cfg.metrics,
		limiter: rate.NewLimiter(logRateLimit, logRateLimit),
		store:   newStore(),
		cache:   newCache(),
	}

	builtins := builtinTemplates
	if cfg.builtinsSet {
		builtins = cfg.builtins
	}
	for _, t := range builtins {
		if err := e.register(nsBuiltin, t.Name, t.Expression, false); err != nil {
			e.logger.Warn("builtin template rejected", "template", t.Name, "error", err)
		}
	}
	return e, nil
}

// MustNew is like New but panics on invalid options.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic("grok: " + err.Error())
	}
	return e
}
