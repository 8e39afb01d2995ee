package grok

import (
	"slices"
	"strings"
)

// expansion is the result of expanding placeholders in a text.
type expansion struct {
	expr    string
	fields  []string // field name per capture group, in group order
	subs    []string // standalone sub-pattern per capture group
	missing []string // placeholder names left unresolved
}

// splitPlaceholder splits the inside of "%{...}" into its name, field and
// sub-pattern parts.
func splitPlaceholder(body string) (name, field, sub string, hasSub bool) {
	name, rest, hasField := strings.Cut(body, ":")
	if !hasField {
		return name, "", "", false
	}
	field, sub, hasSub = strings.Cut(rest, ":")
	return name, field, sub, hasSub
}

// enclosed reports whether the output so far ends with an open
// non-capturing group and the placeholder is directly followed by its
// closing parenthesis.
func enclosed(out string, text string, next int) bool {
	if next >= len(text) || text[next] != ')' {
		return false
	}
	if !strings.HasSuffix(out, "(?:") {
		return false
	}
	return !isEscaped(out, len(out)-3)
}

// singleGroup reports whether s is one non-capturing group spanning the
// whole string.
func singleGroup(s string) bool {
	if !strings.HasPrefix(s, "(?:") {
		return false
	}
	return matchParen(s, 0) == len(s)-1
}

// expandPath expands every placeholder in text. path holds the template
// names being expanded, outermost first.
func (e *Engine) expandPath(text string, path []string) (expansion, error) {
	var x expansion
	if !strings.Contains(text, "%{") {
		x.expr = text
		return x, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for pos < len(text) {
		i := strings.Index(text[pos:], "%{")
		if i < 0 {
			break
		}
		i += pos
		end := placeholderEnd(text, i)
		if end < 0 {
			break
		}
		b.WriteString(text[pos:i])
		pos = end + 1

		name, field, sub, hasSub := splitPlaceholder(text[i+2 : end])

		if hasSub {
			body := demoteSubpattern(sub)
			if field == "" {
				b.WriteString("(?:" + body + ")")
				continue
			}
			b.WriteString("(" + body + ")")
			x.fields = append(x.fields, field)
			x.subs = append(x.subs, body)
			continue
		}

		t, ok := e.store.lookup(name)
		if !ok {
			b.WriteString(text[i : end+1])
			x.missing = append(x.missing, name)
			continue
		}
		if slices.Contains(path, name) {
			return expansion{expr: text}, &ExpandError{Template: name, Path: path, Cause: ErrCycle}
		}
		if len(path) >= e.cfg.maxDepth {
			return expansion{expr: text}, &ExpandError{Template: name, Path: path, Cause: ErrDepthExceeded}
		}

		inner := expansion{expr: t.expr, fields: t.fields, subs: t.subs}
		if !t.complete {
			var err error
			inner, err = e.expandPath(t.raw, append(path[:len(path):len(path)], name))
			if err != nil {
				return expansion{expr: text}, err
			}
			x.missing = append(x.missing, inner.missing...)
		}

		switch {
		case field != "":
			b.WriteString("(" + inner.expr + ")")
			x.fields = append(x.fields, field)
			x.subs = append(x.subs, inner.expr)
		case enclosed(b.String(), text, pos) || singleGroup(inner.expr):
			b.WriteString(inner.expr)
		default:
			b.WriteString("(?:" + inner.expr + ")")
		}
		x.fields = append(x.fields, inner.fields...)
		x.subs = append(x.subs, inner.subs...)
	}
	b.WriteString(text[pos:])
	x.expr = b.String()
	return x, nil
}

// Expand returns the expansion of expression and the field name of each
// capture group. Unknown placeholders are kept as written. On a reference
// cycle the expression is returned unchanged with no fields.
func (e *Engine) Expand(expression string) (string, []string) {
	x, err := e.expandPath(e.normalize(expression, nsExternal), nil)
	if err != nil {
		e.logger.Warn("expansion failed", "expression", expression, "error", err)
		return expression, nil
	}
	return x.expr, x.fields
}
