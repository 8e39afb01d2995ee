package acu

import (
	"fmt"
	"log/slog"
	"time"
)

// WatchOption configures a Watcher using the functional options pattern.
type WatchOption func(*watchConfig)

// watchConfig holds internal configuration for the watcher.
type watchConfig struct {
	file               string
	logDir             string
	glob               string
	pollInterval       time.Duration
	poll               bool
	includeRawLine     bool
	replay             ReplayConfig
	maxReplayLines     int
	maxReplayBytes     int // Maximum total bytes for replay (0 = unlimited)
	maxReplayLineBytes int // Maximum bytes per line for replay (0 = unlimited)
	waitForLogs        bool
	logger             *slog.Logger
	filter             *compiledFilter
	parser             Parser
}

// defaultWatchConfig returns a watchConfig with sensible defaults.
func defaultWatchConfig() *watchConfig {
	return &watchConfig{
		pollInterval:       2 * time.Second,
		maxReplayLines:     DefaultMaxReplayLastN,
		maxReplayBytes:     10 * 1024 * 1024,
		maxReplayLineBytes: 512 * 1024,
	}
}

// applyWatchOptions applies functional options to a watchConfig.
func applyWatchOptions(opts []WatchOption) *watchConfig {
	cfg := defaultWatchConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option combinations.
func (c *watchConfig) validate() error {
	if c.parser == nil {
		return fmt.Errorf("a parser is required")
	}
	if c.file != "" && c.logDir != "" {
		return fmt.Errorf("file and log directory are mutually exclusive")
	}
	if c.replay.Mode == ReplayLastN {
		if c.replay.LastN < 0 {
			return fmt.Errorf("replay LastN must be non-negative, got %d", c.replay.LastN)
		}
		maxLines := c.maxReplayLines
		if maxLines == 0 {
			maxLines = DefaultMaxReplayLastN
		}
		if maxLines > 0 && c.replay.LastN > maxLines {
			return fmt.Errorf("replay LastN (%d) exceeds maximum of %d", c.replay.LastN, maxLines)
		}
	}
	if c.pollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.pollInterval)
	}
	if c.maxReplayBytes < 0 {
		return fmt.Errorf("maxReplayBytes must be non-negative, got %d", c.maxReplayBytes)
	}
	if c.maxReplayLineBytes < 0 {
		return fmt.Errorf("maxReplayLineBytes must be non-negative, got %d", c.maxReplayLineBytes)
	}
	return nil
}

// WithFile follows a single file. Rotation is handled by reopening the
// same path.
func WithFile(path string) WatchOption {
	return func(c *watchConfig) {
		c.file = path
	}
}

// WithLogDir follows the newest file in dir that matches the glob, and
// switches to a newer one when it appears.
// Can also be set via the ACU_LOG_DIR environment variable.
func WithLogDir(dir string) WatchOption {
	return func(c *watchConfig) {
		c.logDir = dir
	}
}

// WithGlob sets the file name pattern used with WithLogDir.
// Default: "*.log".
func WithGlob(glob string) WatchOption {
	return func(c *watchConfig) {
		c.glob = glob
	}
}

// WithPollInterval sets how often to check the log directory for a newer file.
// Default: 2 seconds.
func WithPollInterval(interval time.Duration) WatchOption {
	return func(c *watchConfig) {
		c.pollInterval = interval
	}
}

// WithPolling detects file changes by polling instead of file system
// notifications. Needed on some network file systems.
func WithPolling(poll bool) WatchOption {
	return func(c *watchConfig) {
		c.poll = poll
	}
}

// WithWaitForLogs makes the watcher wait for a matching file to appear in
// the log directory instead of failing with ErrNoLogFiles.
func WithWaitForLogs(wait bool) WatchOption {
	return func(c *watchConfig) {
		c.waitForLogs = wait
	}
}

// WithIncludeRawLine includes the original log line in Record.RawLine.
// Default: false.
func WithIncludeRawLine(include bool) WatchOption {
	return func(c *watchConfig) {
		c.includeRawLine = include
	}
}

// WithReplay configures replay behavior for existing log lines.
// Default: ReplayNone (only new lines).
func WithReplay(config ReplayConfig) WatchOption {
	return func(c *watchConfig) {
		c.replay = config
	}
}

// WithReplayFromStart reads from the beginning of the log file.
func WithReplayFromStart() WatchOption {
	return func(c *watchConfig) {
		c.replay = ReplayConfig{Mode: ReplayFromStart}
	}
}

// WithReplayLastN reads the last N non-empty lines before tailing.
func WithReplayLastN(n int) WatchOption {
	return func(c *watchConfig) {
		c.replay = ReplayConfig{Mode: ReplayLastN, LastN: n}
	}
}

// WithMaxReplayLines sets the maximum lines for ReplayLastN mode.
// 0 uses the default. Set to -1 for unlimited.
func WithMaxReplayLines(max int) WatchOption {
	return func(c *watchConfig) {
		c.maxReplayLines = max
	}
}

// WithMaxReplayBytes sets the maximum total bytes to read during replay.
// Default is 10MB. Set to 0 for unlimited.
func WithMaxReplayBytes(max int) WatchOption {
	return func(c *watchConfig) {
		c.maxReplayBytes = max
	}
}

// WithMaxReplayLineBytes sets the maximum bytes per line during replay.
// Default is 512KB. Set to 0 for unlimited.
func WithMaxReplayLineBytes(max int) WatchOption {
	return func(c *watchConfig) {
		c.maxReplayLineBytes = max
	}
}

// WithLogger sets a custom logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		c.logger = logger
	}
}

// WithParser sets the parser applied to every line.
func WithParser(p Parser) WatchOption {
	return func(c *watchConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParsers combines multiple parsers using ChainAll mode.
func WithParsers(parsers ...Parser) WatchOption {
	return func(c *watchConfig) {
		if len(parsers) > 0 {
			c.parser = &ParserChain{Mode: ChainAll, Parsers: parsers}
		}
	}
}

// WithIncludePatterns only emits records whose Pattern is one of names.
// If called multiple times, only the last call takes effect.
func WithIncludePatterns(names ...string) WatchOption {
	return func(c *watchConfig) {
		c.filter = c.filter.withInclude(names)
	}
}

// WithExcludePatterns drops records whose Pattern is one of names.
// Exclude takes precedence over include.
func WithExcludePatterns(names ...string) WatchOption {
	return func(c *watchConfig) {
		c.filter = c.filter.withExclude(names)
	}
}

// ParseOption configures ParseReader and ParseFile.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for parsing.
type parseConfig struct {
	filter         *compiledFilter
	includeRawLine bool
	stopOnError    bool
	maxLineBytes   int
	parser         Parser
}

// DefaultMaxLineBytes is the default longest line ParseReader accepts.
const DefaultMaxLineBytes = 1024 * 1024

func defaultParseConfig() *parseConfig {
	return &parseConfig{maxLineBytes: DefaultMaxLineBytes}
}

// applyParseOptions applies functional options to a parseConfig.
func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithParseParser sets the parser applied to every line. Required.
func WithParseParser(p Parser) ParseOption {
	return func(c *parseConfig) {
		if p != nil {
			c.parser = p
		}
	}
}

// WithParseIncludeRawLine includes the original log line in Record.RawLine.
func WithParseIncludeRawLine(include bool) ParseOption {
	return func(c *parseConfig) {
		c.includeRawLine = include
	}
}

// WithParseIncludePatterns only yields records whose Pattern is one of names.
func WithParseIncludePatterns(names ...string) ParseOption {
	return func(c *parseConfig) {
		c.filter = c.filter.withInclude(names)
	}
}

// WithParseExcludePatterns drops records whose Pattern is one of names.
func WithParseExcludePatterns(names ...string) ParseOption {
	return func(c *parseConfig) {
		c.filter = c.filter.withExclude(names)
	}
}

// WithParseStopOnError stops parsing on the first error instead of skipping.
// Default: false (report the error and continue).
func WithParseStopOnError(stop bool) ParseOption {
	return func(c *parseConfig) {
		c.stopOnError = stop
	}
}

// WithParseMaxLineBytes sets the longest accepted line.
// Default: DefaultMaxLineBytes.
func WithParseMaxLineBytes(n int) ParseOption {
	return func(c *parseConfig) {
		if n > 0 {
			c.maxLineBytes = n
		}
	}
}

// compiledFilter selects records by Pattern name.
type compiledFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (f *compiledFilter) withInclude(names []string) *compiledFilter {
	if f == nil {
		f = &compiledFilter{}
	}
	f.include = toSet(names)
	return f
}

func (f *compiledFilter) withExclude(names []string) *compiledFilter {
	if f == nil {
		f = &compiledFilter{}
	}
	f.exclude = toSet(names)
	return f
}

// Allows reports whether a record with the given pattern name passes.
// A nil filter allows everything.
func (f *compiledFilter) Allows(pattern string) bool {
	if f == nil {
		return true
	}
	if _, ok := f.exclude[pattern]; ok {
		return false
	}
	if len(f.include) > 0 {
		_, ok := f.include[pattern]
		return ok
	}
	return true
}
