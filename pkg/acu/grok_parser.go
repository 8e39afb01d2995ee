package acu

import (
	"context"
	"errors"
	"fmt"

	"github.com/logacu/acu-go/pkg/grok"
)

// GrokOption configures a GrokParser.
type GrokOption func(*GrokParser)

// WithName sets the Record.Pattern value. Default: the expression text.
func WithName(name string) GrokOption {
	return func(p *GrokParser) {
		if name != "" {
			p.name = name
		}
	}
}

// WithRawValues keeps every captured value as a string instead of
// converting numbers.
func WithRawValues(raw bool) GrokOption {
	return func(p *GrokParser) {
		p.raw = raw
	}
}

// WithRawLine copies the input line into each Record.
func WithRawLine(include bool) GrokOption {
	return func(p *GrokParser) {
		p.includeRawLine = include
	}
}

// GrokParser matches lines against one grok expression.
// It is safe for concurrent use.
type GrokParser struct {
	engine         *grok.Engine
	expression     string
	id             grok.ID
	name           string
	raw            bool
	includeRawLine bool
}

// Compile-time interface check.
var _ Parser = (*GrokParser)(nil)

// NewGrokParser builds expression on engine.
// Returns the build error if the expression cannot be expanded or compiled.
func NewGrokParser(engine *grok.Engine, expression string, opts ...GrokOption) (*GrokParser, error) {
	if engine == nil {
		return nil, errors.New("grok parser: engine is nil")
	}
	id, _ := engine.Build(expression)
	if id == 0 {
		err := engine.Check(expression)
		if err == nil {
			err = fmt.Errorf("expression %q did not build", expression)
		}
		return nil, fmt.Errorf("grok parser: %w", err)
	}

	p := &GrokParser{
		engine:     engine,
		expression: expression,
		id:         id,
		name:       expression,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// ID returns the engine id of the compiled expression.
func (p *GrokParser) ID() grok.ID {
	return p.id
}

// Name returns the value used for Record.Pattern.
func (p *GrokParser) Name() string {
	return p.name
}

// Expression returns the grok expression the parser was built from.
func (p *GrokParser) Expression() string {
	return p.expression
}

// Variables returns the field names of the compiled expression.
func (p *GrokParser) Variables() []string {
	return p.engine.Variables(p.id)
}

// ParseLine implements the Parser interface.
func (p *GrokParser) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return ParseResult{}, err
	}

	fields, ok := p.engine.Match(line, p.id)
	if !ok {
		return ParseResult{}, nil
	}

	rec := Record{Pattern: p.name}
	if p.raw {
		rec.Fields = make(map[string]any, len(fields))
		for k, v := range fields {
			rec.Fields[k] = v
		}
	} else {
		rec.Fields = grok.TypedFields(fields)
	}
	if p.includeRawLine {
		rec.RawLine = line
	}
	return ParseResult{Records: []Record{rec}, Matched: true}, nil
}
