package grok

import (
	"context"
	"maps"

	"github.com/dlclark/regexp2"
)

// extract matches line against en and collects the non-empty captures by
// field name. A field captured more than once keeps its last capture.
func (e *Engine) extract(en *entry, line string) (map[string]string, bool) {
	m, err := en.re.FindStringMatch(line)
	if err != nil {
		if e.limiter.Allow() {
			e.logger.Warn("match failed", "id", uint64(en.id), "error", err)
		}
		return nil, false
	}
	if m == nil {
		return nil, false
	}

	runes := []rune(line)
	fields := make(map[string]string, len(en.variables))
	for i, name := range en.variables {
		g := m.GroupByNumber(i + 1)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		start, end := g.Index, g.Index+g.Length
		if start < 0 || start >= end || end > len(runes) {
			continue
		}
		value := string(runes[start:end])
		if e.cfg.verifyFields && !e.verify(en, name, value) {
			e.logger.Debug("capture dropped", "field", name, "value", value)
			continue
		}
		fields[name] = value
	}
	return fields, true
}

// verify checks value against the standalone sub-patterns of every capture
// group named name. The first one that matches accepts the value.
func (e *Engine) verify(en *entry, name, value string) bool {
	en.verifyOnce.Do(func() {
		en.verifiers = make([]*regexp2.Regexp, len(en.subs))
		for i, sub := range en.subs {
			re, err := regexp2.Compile(`^(?:`+sub+`)$`, e.regexOptions())
			if err != nil {
				e.logger.Debug("sub-pattern not compilable", "field", en.variables[i], "error", err)
				continue
			}
			if e.cfg.matchTimeout > 0 {
				re.MatchTimeout = e.cfg.matchTimeout
			}
			en.verifiers[i] = re
		}
	})
	for i, candidate := range en.variables {
		if candidate != name || en.verifiers[i] == nil {
			continue
		}
		if ok, err := en.verifiers[i].MatchString(value); err == nil && ok {
			return true
		}
	}
	return false
}

// Parse matches line against the expression id and stores the captured
// fields for Dump and Get. It reports whether the line matched.
func (e *Engine) Parse(line string, id ID) bool {
	en, ok := e.cache.get(id)
	if !ok {
		e.logger.Debug("unknown expression id", "id", uint64(id))
		return false
	}
	fields, matched := e.extract(en, line)
	e.metrics.RecordMatch(context.Background(), matched)
	if !matched {
		return false
	}

	en.mu.Lock()
	if en.fields == nil {
		en.fields = make(map[string]string, len(fields))
	}
	maps.Copy(en.fields, fields)
	en.mu.Unlock()
	return true
}

// Match matches line against the expression id and returns the captured
// fields. Unlike Parse it leaves the stored fields untouched, so it is the
// one to use when goroutines share an id.
func (e *Engine) Match(line string, id ID) (map[string]string, bool) {
	en, ok := e.cache.get(id)
	if !ok {
		e.logger.Debug("unknown expression id", "id", uint64(id))
		return nil, false
	}
	fields, matched := e.extract(en, line)
	e.metrics.RecordMatch(context.Background(), matched)
	return fields, matched
}

// Dump returns the stored fields of id with numeric values converted to
// int64, uint64 or float64.
func (e *Engine) Dump(id ID) map[string]any {
	en, ok := e.cache.get(id)
	if !ok {
		return map[string]any{}
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return TypedFields(en.fields)
}

// Get returns one stored field of id, or "" if it was not captured.
func (e *Engine) Get(field string, id ID) string {
	en, ok := e.cache.get(id)
	if !ok {
		return ""
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.fields[field]
}
