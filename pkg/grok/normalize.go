package grok

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// isEscaped reports whether s[i] is preceded by an odd number of backslashes.
func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// classEnd returns the index of the ']' closing the character class that
// opens at s[i], or -1 if the class is unterminated.
func classEnd(s string, i int) int {
	j := i + 1
	if j < len(s) && s[j] == '^' {
		j++
	}
	// A leading ']' is a literal member of the class.
	if j < len(s) && s[j] == ']' {
		j++
	}
	for ; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case ']':
			return j
		}
	}
	return -1
}

// placeholderEnd returns the index of the '}' closing the placeholder that
// opens with "%{" at s[i], or -1 if there is none. Braces inside the
// placeholder are balanced.
func placeholderEnd(s string, i int) int {
	depth := 1
	for j := i + 2; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// skipSpan returns the index of the last byte of a character class or
// placeholder starting at s[i], or i when none starts there.
func skipSpan(s string, i int) int {
	switch {
	case s[i] == '[':
		if end := classEnd(s, i); end >= 0 {
			return end
		}
	case s[i] == '%' && i+1 < len(s) && s[i+1] == '{':
		if end := placeholderEnd(s, i); end >= 0 {
			return end
		}
	}
	return i
}

// matchParen returns the index of the ')' closing the group that opens at
// s[open], or -1 if the group is unbalanced.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			if end := classEnd(s, i); end >= 0 {
				i = end
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// namedGroupHeader checks for "(?<name>", "(?P<name>" or "(?'name'" at s[i]
// and returns the group name and the index where its body starts.
// Lookbehind assertions never qualify.
func namedGroupHeader(s string, i int) (name string, bodyStart int, ok bool) {
	if !strings.HasPrefix(s[i:], "(?") {
		return "", 0, false
	}
	j := i + 2
	var closing byte
	switch {
	case strings.HasPrefix(s[j:], "P<"):
		j += 2
		closing = '>'
	case strings.HasPrefix(s[j:], "<"):
		j++
		closing = '>'
	case strings.HasPrefix(s[j:], "'"):
		j++
		closing = '\''
	default:
		return "", 0, false
	}
	start := j
	if start >= len(s) || !isNameByte(s[start]) || ('0' <= s[start] && s[start] <= '9') {
		return "", 0, false
	}
	for j < len(s) && isNameByte(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != closing {
		return "", 0, false
	}
	return s[start:j], j + 1, true
}

// findNamedGroup locates the first inline named capture group at or after
// from. It returns the half-open span of the whole group, the group name and
// its body.
func findNamedGroup(s string, from int) (start, end int, name, body string, ok bool) {
	for i := from; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
			continue
		case '[', '%':
			i = skipSpan(s, i)
			continue
		case '(':
		default:
			continue
		}
		n, bodyStart, found := namedGroupHeader(s, i)
		if !found {
			continue
		}
		closeIdx := matchParen(s, i)
		if closeIdx < 0 {
			return 0, 0, "", "", false
		}
		return i, closeIdx + 1, n, s[bodyStart:closeIdx], true
	}
	return 0, 0, "", "", false
}

// demoteGroups rewrites every unnamed capturing "(" to "(?:". Escaped
// parentheses, character classes and placeholders are left alone.
func demoteGroups(s string) string {
	if !strings.Contains(s, "(") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[', '%':
			i = skipSpan(s, i)
		case '(':
			if i+1 < len(s) && s[i+1] == '?' {
				continue
			}
			b.WriteString(s[last : i+1])
			b.WriteString("?:")
			last = i + 1
		}
	}
	b.WriteString(s[last:])
	return b.String()
}

// demoteSubpattern makes every group of a placeholder subpattern
// non-capturing, named ones included. The whole subpattern is captured
// under the placeholder's field.
func demoteSubpattern(s string) string {
	pos := 0
	for {
		start, end, _, body, ok := findNamedGroup(s, pos)
		if !ok {
			break
		}
		s = s[:start] + "(?:" + body + ")" + s[end:]
		pos = start + len("(?:")
	}
	return demoteGroups(s)
}

// syntheticName derives the template name used for an inline named group.
func syntheticName(name, body string) string {
	sum := xxhash.Sum64String(name + "_" + body)
	return strings.ToUpper(name) + "_" + strconv.FormatUint(sum, 16)
}

// normalize replaces inline named groups with placeholders referencing
// generated templates and demotes the remaining capturing groups, so that
// every capture in the final expression comes from a named field.
func (e *Engine) normalize(text string, ns namespace) string {
	pos := 0
	for {
		start, end, name, body, ok := findNamedGroup(text, pos)
		if !ok {
			break
		}
		synth := e.synthesize(ns, name, body)
		placeholder := "%{" + synth + ":" + name + "}"
		text = text[:start] + placeholder + text[end:]
		pos = start + len(placeholder)
	}
	return demoteGroups(text)
}

// synthesize registers the body of an inline named group as a template and
// returns the template name. Names are memoized per (name, body).
func (e *Engine) synthesize(ns namespace, name, body string) string {
	key := memoKey{name: name, body: body}
	if synth, ok := e.store.memoized(key); ok {
		if _, exists := e.store.lookup(synth); exists {
			return synth
		}
	}
	synth := syntheticName(name, body)
	if err := e.register(ns, synth, body, true); err != nil {
		e.logger.Warn("inline group rejected", "group", name, "error", err)
		return synth
	}
	e.store.memoize(key, synth)
	return synth
}
