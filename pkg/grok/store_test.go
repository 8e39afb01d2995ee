package grok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logacu/acu-go/pkg/grok"
)

func TestAddPattern_Validation(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"VALID", `[a-z]+`, true},
		{"", `[a-z]+`, false},
		{"HAS SPACE", `x`, false},
		{"HAS:COLON", `x`, false},
		{"BRACE}", `x`, false},
		{"EMPTY_BODY", ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.AddPattern(tt.name, tt.body))
		})
	}
}

func TestAddPattern_OverridesBuiltin(t *testing.T) {
	e := newTestEngine(t)

	require.True(t, e.AddPattern("WORD", `[a-z]+`))
	expr, ok := e.Lookup("WORD")
	require.True(t, ok)
	assert.Equal(t, `[a-z]+`, expr)

	id, text := e.Build("%{WORD:w}")
	require.NotZero(t, id)
	assert.Equal(t, `([a-z]+)`, text)

	e.RemovePattern("WORD")
	expr, ok = e.Lookup("WORD")
	require.True(t, ok)
	assert.Equal(t, `\w+`, expr)

	// Removing a built-in name again is a no-op.
	e.RemovePattern("WORD")
	_, ok = e.Lookup("WORD")
	assert.True(t, ok)
}

func TestAddPattern_SnapshotAndLateBinding(t *testing.T) {
	e := newTestEngine(t)

	require.True(t, e.AddPattern("PAIR", `%{NUM}:%{LATER}`))
	id, _ := e.Build("%{PAIR:p}")
	assert.Zero(t, id, "unresolved reference fails the build")

	require.True(t, e.AddPattern("LATER", `[a-z]+`))
	id, text := e.Build("%{PAIR:p}")
	require.NotZero(t, id)
	assert.Equal(t, `((?:[0-9]+):(?:[a-z]+))`, text)

	fields, ok := e.Match("12:ab", id)
	require.True(t, ok)
	assert.Equal(t, "12:ab", fields["p"])

	// Complete templates keep the expansion taken at registration.
	require.True(t, e.AddPattern("NUMS", `%{NUM}+`))
	require.True(t, e.AddPattern("NUM", `\d`))
	expr, _ := e.Lookup("NUMS")
	assert.Equal(t, `(?:[0-9]+)+`, expr)
}

func TestAddPatterns(t *testing.T) {
	e := newTestEngine(t)

	n := e.AddPatterns(map[string]string{
		"B_PAIR":  `%{A_DIGIT}%{A_DIGIT}`,
		"A_DIGIT": `[0-9]`,
		"BAD KEY": `x`,
	})
	assert.Equal(t, 2, n)

	assert.Equal(t, []grok.Template{
		{Name: "A_DIGIT", Expression: `[0-9]`},
		{Name: "B_PAIR", Expression: `(?:[0-9])(?:[0-9])`},
	}, e.Patterns())
}

func TestClearPatterns(t *testing.T) {
	e := newTestEngine(t)
	e.AddPatterns(map[string]string{"ONE": "1", "TWO": "2"})
	_, _ = e.Build("(?<x>abc)")

	e.ClearPatterns()
	assert.Empty(t, e.Patterns())
	_, ok := e.Lookup("ONE")
	assert.False(t, ok)

	// Inline groups are registered again on the next build.
	id, _ := e.Build("(?<x>abc)")
	assert.NotZero(t, id)
}

func TestCycles(t *testing.T) {
	t.Run("self reference on redefinition", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddPattern("X", `a`))
		assert.False(t, e.AddPattern("X", `%{X}b`))

		expr, _ := e.Lookup("X")
		assert.Equal(t, "a", expr)
	})

	t.Run("self reference before definition", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddPattern("SELF", `%{SELF}x`))

		id, _ := e.Build("%{SELF}")
		assert.Zero(t, id)
		assert.ErrorIs(t, e.Check("%{SELF}"), grok.ErrCycle)
	})

	t.Run("mutual reference", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddPattern("A", `%{B}`))
		require.True(t, e.AddPattern("B", `%{A}`))

		id, _ := e.Build("%{A}")
		assert.Zero(t, id)
		assert.ErrorIs(t, e.Check("%{A}"), grok.ErrCycle)
		assert.ErrorIs(t, e.Check("%{B}"), grok.ErrCycle)
	})
}

func TestMaxDepth(t *testing.T) {
	chain := func(e *grok.Engine) {
		e.AddPattern("D1", `%{D2}`)
		e.AddPattern("D2", `%{D3}`)
		e.AddPattern("D3", `%{D4}`)
		e.AddPattern("D4", `x`)
	}

	shallow := newTestEngine(t, grok.WithMaxDepth(2))
	chain(shallow)
	id, _ := shallow.Build("%{D1:v}")
	assert.Zero(t, id)

	var expandErr *grok.ExpandError
	err := shallow.Check("%{D1:v}")
	require.ErrorAs(t, err, &expandErr)
	assert.ErrorIs(t, err, grok.ErrDepthExceeded)
	assert.Equal(t, "D3", expandErr.Template)

	deep := newTestEngine(t)
	chain(deep)
	id, _ = deep.Build("%{D1:v}")
	require.NotZero(t, id)
	fields, ok := deep.Match("x", id)
	require.True(t, ok)
	assert.Equal(t, "x", fields["v"])
}

func TestBuiltins(t *testing.T) {
	e, err := grok.New()
	require.NoError(t, err)

	builtins := e.Builtins()
	require.Len(t, builtins, len(grok.DefaultBuiltins()))
	assert.Equal(t, "USERNAME", builtins[0].Name)

	for _, b := range builtins {
		t.Run(b.Name, func(t *testing.T) {
			id, _ := e.Build("%{" + b.Name + ":value}")
			assert.NotZero(t, id)
		})
	}
}

func TestWithBuiltins_Empty(t *testing.T) {
	e, err := grok.New(grok.WithBuiltins(nil))
	require.NoError(t, err)
	assert.Empty(t, e.Builtins())

	id, _ := e.Build("%{WORD:w}")
	assert.Zero(t, id)
}
