package acu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/logacu/acu-go/internal/safefile"
)

// ErrParserRequired is returned when ParseReader or ParseFile is called
// without WithParseParser.
var ErrParserRequired = errors.New("a parser is required")

// ParseReader parses every line of r and yields the resulting records.
//
// Parser failures are yielded as *ParseError and parsing continues, unless
// WithParseStopOnError is set. Read failures and ctx cancellation end the
// sequence after yielding the error.
//
// Example:
//
//	for rec, err := range acu.ParseReader(ctx, os.Stdin, acu.WithParseParser(p)) {
//	    if err != nil {
//	        log.Print(err)
//	        continue
//	    }
//	    fmt.Println(rec.Fields)
//	}
func ParseReader(ctx context.Context, r io.Reader, opts ...ParseOption) iter.Seq2[Record, error] {
	cfg := applyParseOptions(opts)

	return func(yield func(Record, error) bool) {
		if cfg.parser == nil {
			yield(Record{}, ErrParserRequired)
			return
		}

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, min(64*1024, cfg.maxLineBytes)), cfg.maxLineBytes)

		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				yield(Record{}, err)
				return
			}

			line := trimCR(scanner.Text())
			if line == "" {
				continue
			}

			result, err := cfg.parser.ParseLine(ctx, line)
			for _, rec := range result.Records {
				if !cfg.filter.Allows(rec.Pattern) {
					continue
				}
				if cfg.includeRawLine {
					rec.RawLine = line
				}
				if !yield(rec, nil) {
					return
				}
			}
			if err != nil {
				if !yield(Record{}, &ParseError{Line: line, Err: err}) || cfg.stopOnError {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Record{}, fmt.Errorf("reading input: %w", err))
		}
	}
}

// ParseFile opens path and parses it with ParseReader. An open failure is
// yielded as the only element.
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, _, err := safefile.OpenRegular(path)
		if err != nil {
			yield(Record{}, fmt.Errorf("open %s: %w", path, err))
			return
		}
		defer f.Close()

		for rec, err := range ParseReader(ctx, f, opts...) {
			if !yield(rec, err) {
				return
			}
		}
	}
}
