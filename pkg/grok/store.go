package grok

import (
	"slices"
	"sort"
	"strings"
	"sync"
)

// Template is a named pattern body that placeholders can reference.
type Template struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"pattern" json:"pattern"`
}

// template is a registered Template. expr is the expansion taken at
// registration; raw keeps the placeholders so that names which were unknown
// at registration can still be resolved later.
type template struct {
	name     string
	raw      string
	expr     string
	fields   []string
	subs     []string
	complete bool
}

type namespace int

const (
	nsBuiltin namespace = iota
	nsExternal
)

type memoKey struct {
	name string
	body string
}

// store holds the built-in and external namespaces plus the memo of
// synthetic names generated for inline named groups.
type store struct {
	mu        sync.RWMutex
	builtin   map[string]*template
	order     []string
	external  map[string]*template
	synthetic map[string]struct{}
	memo      map[memoKey]string
}

func newStore() *store {
	return &store{
		builtin:   make(map[string]*template),
		external:  make(map[string]*template),
		synthetic: make(map[string]struct{}),
		memo:      make(map[memoKey]string),
	}
}

// lookup resolves a name, external namespace first.
func (s *store) lookup(name string) (*template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.external[name]; ok {
		return t, true
	}
	t, ok := s.builtin[name]
	return t, ok
}

func (s *store) put(ns namespace, t *template, synthetic bool) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns == nsBuiltin {
		if _, ok := s.builtin[t.name]; !ok {
			s.order = append(s.order, t.name)
		}
		s.builtin[t.name] = t
		return false
	}
	_, replaced = s.external[t.name]
	s.external[t.name] = t
	if synthetic {
		s.synthetic[t.name] = struct{}{}
	} else {
		delete(s.synthetic, t.name)
	}
	return replaced
}

func (s *store) remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.external[name]
	delete(s.external, name)
	delete(s.synthetic, name)
	return ok
}

// clearExternal drops every external and synthetic template and the memo.
func (s *store) clearExternal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.external)
	clear(s.synthetic)
	clear(s.memo)
}

func (s *store) memoized(key memoKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.memo[key]
	return name, ok
}

func (s *store) memoize(key memoKey, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memo[key] = name
}

func (s *store) builtins() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Template, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Template{Name: name, Expression: s.builtin[name].expr})
	}
	return out
}

// externals returns the user templates sorted by name. Synthetic templates
// are left out.
func (s *store) externals() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Template, 0, len(s.external))
	for name, t := range s.external {
		if _, ok := s.synthetic[name]; ok {
			continue
		}
		out = append(out, Template{Name: name, Expression: t.expr})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// validName reports whether name can be referenced from a placeholder.
func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, ":{} \t\r\n")
}

// register normalizes and expands body, then stores it under name.
func (e *Engine) register(ns namespace, name, body string, synthetic bool) error {
	if !validName(name) {
		return &ExpandError{Template: name, Cause: ErrInvalidName}
	}
	if body == "" {
		return &ExpandError{Template: name, Cause: ErrEmptyExpression}
	}

	raw := e.normalize(body, ns)
	x, err := e.expandPath(raw, []string{name})
	if err != nil {
		return err
	}
	if x.expr == "" {
		return &ExpandError{Template: name, Cause: ErrEmptyExpression}
	}

	t := &template{
		name:     name,
		raw:      raw,
		expr:     x.expr,
		fields:   x.fields,
		subs:     x.subs,
		complete: len(x.missing) == 0,
	}
	if e.store.put(ns, t, synthetic) {
		e.logger.Debug("template replaced", "template", name)
	}
	if !t.complete {
		e.logger.Debug("template references unknown names",
			"template", name,
			"missing", slices.Compact(slices.Sorted(slices.Values(x.missing))))
	}
	return nil
}

// AddPattern registers an external template. The body is expanded against
// the templates known at this point and stored. It reports whether the
// template was stored; failures are logged.
func (e *Engine) AddPattern(name, body string) bool {
	if err := e.register(nsExternal, name, body, false); err != nil {
		e.logger.Warn("pattern rejected", "template", name, "error", err)
		return false
	}
	return true
}

// AddPatterns registers a batch of external templates in name order and
// returns how many were stored.
func (e *Engine) AddPatterns(batch map[string]string) int {
	names := make([]string, 0, len(batch))
	for name := range batch {
		names = append(names, name)
	}
	sort.Strings(names)

	n := 0
	for _, name := range names {
		if e.AddPattern(name, batch[name]) {
			n++
		}
	}
	return n
}

// RemovePattern drops an external template. Built-ins are never removed.
func (e *Engine) RemovePattern(name string) {
	if !e.store.remove(name) {
		e.logger.Debug("remove of unknown pattern", "template", name)
	}
}

// ClearPatterns drops every external template, including the ones
// generated for inline named groups.
func (e *Engine) ClearPatterns() {
	e.store.clearExternal()
}

// Lookup returns the stored expansion of a template, external names first.
func (e *Engine) Lookup(name string) (string, bool) {
	t, ok := e.store.lookup(name)
	if !ok {
		return "", false
	}
	return t.expr, true
}

// Builtins returns the built-in templates in registration order.
func (e *Engine) Builtins() []Template {
	return e.store.builtins()
}

// Patterns returns the external templates sorted by name.
func (e *Engine) Patterns() []Template {
	return e.store.externals()
}
