package grok

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dlclark/regexp2"
)

// ID identifies a compiled expression. It is a hash of the final expression
// text; 0 means "no entry".
type ID uint64

// hashID returns the cache id of a final expression.
func hashID(expr string) ID {
	id := ID(xxhash.Sum64String(expr))
	if id == 0 {
		id = 1
	}
	return id
}

// entry is a compiled expression and the fields of its latest Parse.
type entry struct {
	id         ID
	expression string
	re         *regexp2.Regexp
	variables  []string
	subs       []string

	mu     sync.Mutex
	fields map[string]string

	verifyOnce sync.Once
	verifiers  []*regexp2.Regexp
}

// cache maps ids to compiled entries.
type cache struct {
	mu      sync.RWMutex
	entries map[ID]*entry

	compilations atomic.Int64
	hits         atomic.Int64
}

func newCache() *cache {
	return &cache{entries: make(map[ID]*entry)}
}

func (c *cache) get(id ID) (*entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	en, ok := c.entries[id]
	return en, ok
}

// insert stores en unless another goroutine stored the same id while en
// was being compiled, in which case the existing entry is returned.
func (c *cache) insert(en *entry) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[en.id]; ok {
		return existing
	}
	c.entries[en.id] = en
	return en
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *cache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Entries      int   // Compiled expressions currently cached
	Compilations int64 // Compile attempts made by Build
	Hits         int64 // Builds answered from the cache
}

// Stats returns a snapshot of cache activity.
func (e *Engine) Stats() Stats {
	return Stats{
		Entries:      e.cache.len(),
		Compilations: e.cache.compilations.Load(),
		Hits:         e.cache.hits.Load(),
	}
}

// prepare normalizes and expands an expression into its final text.
func (e *Engine) prepare(expression string) (expansion, error) {
	if expression == "" {
		return expansion{}, ErrEmptyExpression
	}
	x, err := e.expandPath(e.normalize(expression, nsExternal), nil)
	if err != nil {
		return x, err
	}
	if len(x.missing) > 0 {
		return x, &ExpandError{Template: x.missing[0], Cause: ErrTemplateNotFound}
	}
	if x.expr == "" {
		return x, ErrEmptyExpression
	}
	return x, nil
}

func (e *Engine) regexOptions() regexp2.RegexOptions {
	if e.cfg.ignoreCase {
		return regexp2.IgnoreCase
	}
	return regexp2.None
}

// compile turns a final expression into a regex and checks that every
// capture group has a field name.
func (e *Engine) compile(expr string, fields int) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, e.regexOptions())
	if err != nil {
		return nil, &CompileError{Expression: expr, Cause: err}
	}
	if e.cfg.matchTimeout > 0 {
		re.MatchTimeout = e.cfg.matchTimeout
	}
	if groups := len(re.GetGroupNumbers()) - 1; groups != fields {
		return nil, &CompileError{
			Expression: expr,
			Cause:      fmt.Errorf("%w: %d groups, %d fields", ErrCaptureMismatch, groups, fields),
		}
	}
	return re, nil
}

// Build expands and compiles expression and returns its id together with
// the final expression text. Building the same text again, or building a
// returned final text, yields the same id without recompiling. On failure
// the id is 0 and the reason is logged.
func (e *Engine) Build(expression string) (ID, string) {
	ctx := context.Background()
	if expression == "" {
		e.logger.Debug("empty expression")
		return 0, ""
	}

	if en, ok := e.cache.get(hashID(expression)); ok && en.expression == expression {
		e.cache.hits.Add(1)
		e.metrics.RecordCacheHit(ctx)
		return en.id, en.expression
	}

	x, err := e.prepare(expression)
	if err != nil {
		e.logger.Warn("expression rejected", "expression", expression, "error", err)
		return 0, x.expr
	}

	id := hashID(x.expr)
	if en, ok := e.cache.get(id); ok {
		if en.expression != x.expr {
			e.logger.Warn("cache id collision", "expression", x.expr, "id", uint64(id))
			return 0, x.expr
		}
		if !slices.Equal(en.variables, x.fields) {
			e.logger.Warn("field names differ from cached expression, keeping cached names",
				"expression", expression,
				"cached", en.variables,
				"fields", x.fields)
		}
		e.cache.hits.Add(1)
		e.metrics.RecordCacheHit(ctx)
		return id, en.expression
	}

	start := time.Now()
	re, err := e.compile(x.expr, len(x.fields))
	e.cache.compilations.Add(1)
	e.metrics.RecordCompile(ctx, err == nil, time.Since(start))
	if err != nil {
		e.logger.Error("compile failed", "expression", expression, "error", err)
		return 0, x.expr
	}

	en := e.cache.insert(&entry{
		id:         id,
		expression: x.expr,
		re:         re,
		variables:  x.fields,
		subs:       x.subs,
	})
	return en.id, en.expression
}

// Check reports why expression would fail to build, without caching it.
func (e *Engine) Check(expression string) error {
	x, err := e.prepare(expression)
	if err != nil {
		return err
	}
	_, err = e.compile(x.expr, len(x.fields))
	return err
}

// Variables returns the field name of each capture group of a built
// expression, or nil for an unknown id.
func (e *Engine) Variables(id ID) []string {
	en, ok := e.cache.get(id)
	if !ok {
		return nil
	}
	return slices.Clone(en.variables)
}

// Expression returns the final text of a built expression.
func (e *Engine) Expression(id ID) (string, bool) {
	en, ok := e.cache.get(id)
	if !ok {
		return "", false
	}
	return en.expression, true
}

// Reset clears the parsed fields of one expression. The compiled
// expression stays cached.
func (e *Engine) Reset(id ID) {
	en, ok := e.cache.get(id)
	if !ok {
		return
	}
	en.mu.Lock()
	en.fields = nil
	en.mu.Unlock()
}

// Clear drops every compiled expression and every external template.
func (e *Engine) Clear() {
	e.cache.clear()
	e.ClearPatterns()
}
