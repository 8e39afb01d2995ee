package acu

import (
	"context"
	"errors"
)

// Record is the structured result of one line matched by one expression.
type Record struct {
	// Pattern names the expression that produced the record.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Fields holds the captured values. Numbers are int64, uint64 or
	// float64 unless the parser keeps raw strings.
	Fields map[string]any `json:"fields" yaml:"fields"`

	// RawLine is the input line, set only when requested.
	RawLine string `json:"raw_line,omitempty" yaml:"raw_line,omitempty"`
}

// ParseResult represents the result of parsing a log line.
type ParseResult struct {
	// Records contains the parsed records.
	Records []Record

	// Matched indicates whether the parser matched the input.
	// This can be true even if Records is empty (e.g., a filter that matches but outputs nothing).
	Matched bool
}

// Parser is the interface for log line parsers.
// GrokParser is the built-in implementation.
type Parser interface {
	// ParseLine parses a single log line.
	// Returns ParseResult with Matched=true if the line was recognized.
	// Returns error only for unexpected failures (not for unrecognized lines).
	ParseLine(ctx context.Context, line string) (ParseResult, error)
}

// ParserFunc is an adapter to allow ordinary functions to be used as Parsers.
type ParserFunc func(ctx context.Context, line string) (ParseResult, error)

// ParseLine implements the Parser interface.
func (f ParserFunc) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	return f(ctx, line)
}

// ChainMode specifies how ParserChain executes parsers.
type ChainMode int

const (
	// ChainAll executes all parsers and combines results (default).
	ChainAll ChainMode = iota

	// ChainFirst stops at the first parser that matches.
	ChainFirst

	// ChainContinueOnError skips parsers that return errors and continues.
	// Errors are collected and returned together at the end.
	ChainContinueOnError
)

// String returns the flag spelling of the mode.
func (m ChainMode) String() string {
	switch m {
	case ChainAll:
		return "all"
	case ChainFirst:
		return "first"
	case ChainContinueOnError:
		return "continue-on-error"
	default:
		return "unknown"
	}
}

// ParserChain combines multiple parsers.
type ParserChain struct {
	Mode    ChainMode
	Parsers []Parser
}

// ParseLine implements the Parser interface.
//
// If the context is cancelled during execution, ParseLine returns the
// records collected so far together with the context error.
func (c *ParserChain) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	var records []Record
	var errs []error
	anyMatched := false

	for _, p := range c.Parsers {
		if err := ctx.Err(); err != nil {
			return ParseResult{Records: records, Matched: anyMatched}, err
		}
		if p == nil {
			continue
		}

		result, err := p.ParseLine(ctx, line)
		if err != nil {
			if c.Mode == ChainContinueOnError {
				errs = append(errs, err)
				continue
			}
			return ParseResult{}, err
		}
		if !result.Matched {
			continue
		}
		anyMatched = true
		records = append(records, result.Records...)
		if c.Mode == ChainFirst {
			break
		}
	}

	if len(errs) > 0 {
		return ParseResult{Records: records, Matched: anyMatched}, errors.Join(errs...)
	}
	return ParseResult{Records: records, Matched: anyMatched}, nil
}
