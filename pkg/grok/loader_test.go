package grok_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logacu/acu-go/pkg/grok"
)

func TestLoad_Versioned(t *testing.T) {
	pf, err := grok.Load("testdata/versioned.yaml")
	require.NoError(t, err)
	assert.Equal(t, 1, pf.Version)
	require.Len(t, pf.Patterns, 2)
	assert.Equal(t, "NGINX_TS", pf.Patterns[0].Name)
	assert.Equal(t, `upstream: "%{URI:upstream}"`, pf.Patterns[1].Expression)
}

func TestLoad_FlatJSON(t *testing.T) {
	pf, err := grok.Load("testdata/flat.json")
	require.NoError(t, err)
	assert.Equal(t, grok.SupportedVersion, pf.Version)
	assert.Equal(t, []grok.Template{
		{Name: "ZDATE", Expression: `%{YEAR}-%{MONTHNUM2}-%{MONTHDAY}`},
		{Name: "APPLINE", Expression: `%{ZDATE:date} \[%{LOGLEVEL:level}\] %{GREEDYDATA:msg}`},
	}, pf.Patterns)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		file    string
		target  any
		message string
	}{
		{"testdata/unsupported_version.yaml", new(*grok.ValidationError), "unsupported version"},
		{"testdata/duplicate_name.yaml", new(*grok.PatternError), "duplicate name"},
		{"testdata/missing_pattern.yaml", new(*grok.PatternError), "pattern is required"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := grok.Load(tt.file)
			require.Error(t, err)
			assert.True(t, errors.As(err, tt.target))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	_, err := grok.Load("testdata/empty.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := grok.Load("testdata/nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read pattern file")
	assert.NotContains(t, err.Error(), "nonexistent.yaml")
}

func TestLoadBytes(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := grok.LoadBytes(nil)
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := grok.LoadBytes([]byte("- a\n- b\n"))
		var valErr *grok.ValidationError
		assert.ErrorAs(t, err, &valErr)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := grok.LoadBytes([]byte("version: [1"))
		assert.ErrorContains(t, err, "failed to parse YAML")
	})

	t.Run("flat value must be a string", func(t *testing.T) {
		_, err := grok.LoadBytes([]byte("X:\n  - a\n"))
		var patErr *grok.PatternError
		require.ErrorAs(t, err, &patErr)
		assert.Equal(t, "X", patErr.Name)
	})

	t.Run("invalid name", func(t *testing.T) {
		_, err := grok.LoadBytes([]byte(`{"BAD NAME": "x"}`))
		assert.ErrorIs(t, err, grok.ErrInvalidName)
	})

	t.Run("too large", func(t *testing.T) {
		data := make([]byte, grok.MaxPatternFileSize+1)
		_, err := grok.LoadBytes(data)
		assert.ErrorContains(t, err, "too large")
	})
}

func TestValidate_Limits(t *testing.T) {
	t.Run("pattern too long", func(t *testing.T) {
		pf := &grok.PatternFile{
			Version:  1,
			Patterns: []grok.Template{{Name: "LONG", Expression: strings.Repeat("a", grok.MaxPatternLength+1)}},
		}
		assert.ErrorContains(t, pf.Validate(), "pattern too long")
	})

	t.Run("too many patterns", func(t *testing.T) {
		pf := &grok.PatternFile{Version: 1}
		for i := 0; i <= grok.MaxPatternCount; i++ {
			pf.Patterns = append(pf.Patterns, grok.Template{Name: fmt.Sprintf("P%d", i), Expression: "x"})
		}
		assert.ErrorContains(t, pf.Validate(), "too many patterns")
	})

	t.Run("no patterns", func(t *testing.T) {
		pf := &grok.PatternFile{Version: 1}
		assert.ErrorContains(t, pf.Validate(), "at least one pattern")
	})
}

func TestEngine_LoadPatterns(t *testing.T) {
	e, err := grok.New()
	require.NoError(t, err)

	pf, err := grok.Load("testdata/flat.json")
	require.NoError(t, err)
	assert.Equal(t, 2, e.LoadPatterns(pf))
	assert.Zero(t, e.LoadPatterns(nil))

	id, _ := e.Build("%{APPLINE}")
	require.NotZero(t, id)

	fields, ok := e.Match("2024-03-09 [WARN] disk almost full", id)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"date":  "2024-03-09",
		"level": "WARN",
		"msg":   "disk almost full",
	}, fields)
}
