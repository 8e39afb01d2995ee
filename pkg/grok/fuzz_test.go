package grok

import (
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzBuild feeds arbitrary expressions through normalization, expansion
// and compilation. Whatever compiles must keep one field per capture group.
func FuzzBuild(f *testing.F) {
	e := MustNew(WithMatchTimeout(50 * time.Millisecond))

	f.Add("%{WORD:greeting} world")
	f.Add("(?<year>[0-9]{4})-(?P<m>\\d\\d)")
	f.Add("%{NOPE:x} abc")
	f.Add("%{X:n:[0-9]{3}}")
	f.Add("((a)(?:b)[(])\\(%{INT}")
	f.Add("%{")
	f.Add("(?<")
	f.Add("%{SYSLOGBASE} %{GREEDYDATA:message}")
	f.Add(string([]byte{0xff, 0xfe, 0xfd}))

	f.Fuzz(func(t *testing.T, expr string) {
		if len(expr) > 512 {
			t.Skip()
		}
		id, _ := e.Build(expr)
		if id == 0 {
			return
		}
		en, ok := e.cache.get(id)
		if !ok {
			t.Fatalf("built id %d missing from cache", id)
		}
		if groups := len(en.re.GetGroupNumbers()) - 1; groups != len(en.variables) {
			t.Fatalf("%q: %d groups, %d fields", en.expression, groups, len(en.variables))
		}
		again, _ := e.Build(en.expression)
		if again != id {
			t.Fatalf("%q: rebuild gave %d, want %d", en.expression, again, id)
		}
	})
}

// FuzzMatch matches arbitrary lines against a fixed expression. Captured
// values must be valid slices of the input.
func FuzzMatch(f *testing.F) {
	e := MustNew(WithMatchTimeout(50 * time.Millisecond))
	id, _ := e.Build(`%{SYSLOGBASE} %{GREEDYDATA:message}`)
	if id == 0 {
		f.Fatal("expression did not compile")
	}

	f.Add("Mar  7 00:00:01 myhost sshd[1234]: Accepted publickey for root")
	f.Add("")
	f.Add("Jan 1 00:00:00 h p: ")
	f.Add("Feb 29 23:59:60 東京 app[1]: メッセージ")
	f.Add(string([]byte{0xff, 0xfe, 0xfd}))

	f.Fuzz(func(t *testing.T, line string) {
		fields, ok := e.Match(line, id)
		if !ok {
			return
		}
		for name, v := range fields {
			if v == "" {
				t.Fatalf("field %s captured empty value", name)
			}
			if utf8.ValidString(line) && !utf8.ValidString(v) {
				t.Fatalf("field %s: invalid UTF-8 %q from valid line", name, v)
			}
		}
	})
}
