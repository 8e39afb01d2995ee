package acu_test

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logacu/acu-go/internal/safefile"
	"github.com/logacu/acu-go/pkg/acu"
	"github.com/logacu/acu-go/pkg/grok"
)

func constParser(pattern string) acu.Parser {
	return acu.ParserFunc(func(context.Context, string) (acu.ParseResult, error) {
		return acu.ParseResult{Records: []acu.Record{{Pattern: pattern}}, Matched: true}, nil
	})
}

var noMatch = acu.ParserFunc(func(context.Context, string) (acu.ParseResult, error) {
	return acu.ParseResult{}, nil
})

func failing(err error) acu.Parser {
	return acu.ParserFunc(func(context.Context, string) (acu.ParseResult, error) {
		return acu.ParseResult{}, err
	})
}

func patterns(recs []acu.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Pattern
	}
	return out
}

func TestParserChain(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	tests := []struct {
		name     string
		mode     acu.ChainMode
		parsers  []acu.Parser
		want     []string
		matched  bool
		wantErrs []error
	}{
		{"all combines", acu.ChainAll, []acu.Parser{constParser("a"), noMatch, constParser("b")}, []string{"a", "b"}, true, nil},
		{"first stops", acu.ChainFirst, []acu.Parser{noMatch, constParser("a"), constParser("b")}, []string{"a"}, true, nil},
		{"nothing matches", acu.ChainAll, []acu.Parser{noMatch, nil}, nil, false, nil},
		{"all fails fast", acu.ChainAll, []acu.Parser{constParser("a"), failing(errA), constParser("b")}, nil, false, []error{errA}},
		{"continue collects", acu.ChainContinueOnError, []acu.Parser{failing(errA), constParser("a"), failing(errB)}, []string{"a"}, true, []error{errA, errB}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := &acu.ParserChain{Mode: tt.mode, Parsers: tt.parsers}
			result, err := chain.ParseLine(context.Background(), "line")
			if tt.wantErrs == nil {
				require.NoError(t, err)
			}
			for _, e := range tt.wantErrs {
				assert.ErrorIs(t, err, e)
			}
			assert.Equal(t, tt.matched, result.Matched)
			if tt.want == nil {
				assert.Empty(t, result.Records)
			} else {
				assert.Equal(t, tt.want, patterns(result.Records))
			}
		})
	}
}

func TestParserChain_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	chain := &acu.ParserChain{Parsers: []acu.Parser{constParser("a")}}
	_, err := chain.ParseLine(ctx, "line")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChainMode_String(t *testing.T) {
	assert.Equal(t, "all", acu.ChainAll.String())
	assert.Equal(t, "first", acu.ChainFirst.String())
	assert.Equal(t, "continue-on-error", acu.ChainContinueOnError.String())
	assert.Equal(t, "unknown", acu.ChainMode(42).String())
}

func TestGrokParser(t *testing.T) {
	engine := grok.MustNew()
	p, err := acu.NewGrokParser(engine, `%{IP:client} %{WORD:method} %{NUMBER:bytes}`)
	require.NoError(t, err)

	assert.NotZero(t, p.ID())
	assert.Equal(t, `%{IP:client} %{WORD:method} %{NUMBER:bytes}`, p.Name())
	assert.ElementsMatch(t, []string{"client", "method", "bytes"}, p.Variables())

	result, err := p.ParseLine(context.Background(), "10.0.0.1 GET 512")
	require.NoError(t, err)
	require.True(t, result.Matched)
	require.Len(t, result.Records, 1)
	assert.Equal(t, map[string]any{"client": "10.0.0.1", "method": "GET", "bytes": int64(512)}, result.Records[0].Fields)
	assert.Empty(t, result.Records[0].RawLine)

	result, err = p.ParseLine(context.Background(), "nothing here")
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGrokParser_Options(t *testing.T) {
	p, err := acu.NewGrokParser(grok.MustNew(), `%{NUMBER:n}`,
		acu.WithName("num"), acu.WithRawValues(true), acu.WithRawLine(true))
	require.NoError(t, err)

	result, err := p.ParseLine(context.Background(), "n=7")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	rec := result.Records[0]
	assert.Equal(t, "num", p.Name())
	assert.Equal(t, `%{NUMBER:n}`, p.Expression())
	assert.Equal(t, "num", rec.Pattern)
	assert.Equal(t, map[string]any{"n": "7"}, rec.Fields)
	assert.Equal(t, "n=7", rec.RawLine)
}

func TestNewGrokParser_Errors(t *testing.T) {
	_, err := acu.NewGrokParser(nil, `%{WORD}`)
	assert.Error(t, err)

	_, err = acu.NewGrokParser(grok.MustNew(), `%{NO_SUCH_TEMPLATE:x}`)
	assert.ErrorIs(t, err, grok.ErrTemplateNotFound)

	_, err = acu.NewGrokParser(grok.MustNew(), `(unclosed`)
	var ce *grok.CompileError
	assert.ErrorAs(t, err, &ce)

	_, err = acu.NewGrokParser(grok.MustNew(), "")
	assert.Error(t, err)
}

func TestGrokParser_Cancelled(t *testing.T) {
	p, err := acu.NewGrokParser(grok.MustNew(), `%{WORD:w}`)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ParseLine(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseReader(t *testing.T) {
	p, err := acu.NewGrokParser(grok.MustNew(), `%{WORD:user} joined room %{INT:room}`, acu.WithName("join"))
	require.NoError(t, err)

	input := "alice joined room 1\r\n\nnoise\nbob joined room 2\n"
	var recs []acu.Record
	for rec, err := range acu.ParseReader(context.Background(), strings.NewReader(input),
		acu.WithParseParser(p), acu.WithParseIncludeRawLine(true)) {
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	require.Len(t, recs, 2)
	assert.Equal(t, "alice", recs[0].Fields["user"])
	assert.Equal(t, "alice joined room 1", recs[0].RawLine)
	assert.Equal(t, int64(2), recs[1].Fields["room"])
}

func TestParseReader_NoParser(t *testing.T) {
	for _, err := range acu.ParseReader(context.Background(), strings.NewReader("x")) {
		assert.ErrorIs(t, err, acu.ErrParserRequired)
	}
}

func TestParseReader_Errors(t *testing.T) {
	chain := &acu.ParserChain{Mode: acu.ChainContinueOnError, Parsers: []acu.Parser{failing(assert.AnError), constParser("ok")}}
	input := "one\ntwo\n"

	var recs, errs int
	for _, err := range acu.ParseReader(context.Background(), strings.NewReader(input), acu.WithParseParser(chain)) {
		if err != nil {
			var pe *acu.ParseError
			assert.ErrorAs(t, err, &pe)
			errs++
			continue
		}
		recs++
	}
	assert.Equal(t, 2, recs)
	assert.Equal(t, 2, errs)

	errs = 0
	for _, err := range acu.ParseReader(context.Background(), strings.NewReader(input),
		acu.WithParseParser(chain), acu.WithParseStopOnError(true)) {
		if err != nil {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestParseReader_Filter(t *testing.T) {
	chain := &acu.ParserChain{Parsers: []acu.Parser{constParser("a"), constParser("b"), constParser("c")}}

	var got []string
	for rec, err := range acu.ParseReader(context.Background(), strings.NewReader("x\n"),
		acu.WithParseParser(chain),
		acu.WithParseIncludePatterns("a", "b"),
		acu.WithParseExcludePatterns("b")) {
		require.NoError(t, err)
		got = append(got, rec.Pattern)
	}
	assert.Equal(t, []string{"a"}, got)
}

func TestParseReader_LineTooLong(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		line  string
	}{
		{"tiny limit", 10, strings.Repeat("z", 100)},
		{"limit below scanner default", 100, strings.Repeat("z", 5000)},
		{"limit above scanner default", 70 * 1024, strings.Repeat("z", 80*1024)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records int
			var gotErr error
			for _, err := range acu.ParseReader(context.Background(), strings.NewReader("ok\n"+tt.line+"\n"),
				acu.WithParseParser(constParser("p")), acu.WithParseMaxLineBytes(tt.limit)) {
				if err != nil {
					gotErr = err
					continue
				}
				records++
			}
			assert.ErrorIs(t, gotErr, bufio.ErrTooLong)
			assert.Equal(t, 1, records, "only the short line is parsed")
		})
	}
}

func TestParseReader_Break(t *testing.T) {
	n := 0
	for range acu.ParseReader(context.Background(), strings.NewReader("a\nb\nc\n"), acu.WithParseParser(constParser("p"))) {
		n++
		break
	}
	assert.Equal(t, 1, n)
}

func TestParseFile_Missing(t *testing.T) {
	for _, err := range acu.ParseFile(context.Background(), "/nonexistent/file.log", acu.WithParseParser(noMatch)) {
		assert.ErrorIs(t, err, fs.ErrNotExist)
	}
}

func TestParseFile_Directory(t *testing.T) {
	n := 0
	for _, err := range acu.ParseFile(context.Background(), t.TempDir(), acu.WithParseParser(noMatch)) {
		n++
		assert.ErrorIs(t, err, safefile.ErrNotRegularFile)
	}
	assert.Equal(t, 1, n)
}
