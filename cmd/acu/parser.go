package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/logacu/acu-go/pkg/acu"
	"github.com/logacu/acu-go/pkg/grok"
)

// errNoExpressions is returned when neither --express nor --express-file
// provides an expression.
var errNoExpressions = errors.New("at least one expression is required (--express or --express-file)")

// buildEngine creates an engine and loads the given pattern files into it.
func buildEngine(patternFiles []string, matchTimeout time.Duration, logger *slog.Logger) (*grok.Engine, error) {
	engine, err := grok.New(
		grok.WithLogger(logger),
		grok.WithMatchTimeout(matchTimeout),
	)
	if err != nil {
		return nil, err
	}

	for i, path := range patternFiles {
		pf, err := grok.Load(path)
		if err != nil {
			// Load errors carry no path.
			return nil, fmt.Errorf("pattern file %d: %w", i+1, err)
		}
		n := engine.LoadPatterns(pf)
		if n < len(pf.Patterns) {
			logger.Warn("some templates were rejected", "file", path, "loaded", n, "total", len(pf.Patterns))
		} else {
			logger.Debug("loaded pattern file", "file", path, "templates", n)
		}
	}
	return engine, nil
}

// readExpressions merges --express values with the non-empty, non-comment
// lines of --express-file.
func readExpressions(exprs []string, exprFile string) ([]string, error) {
	out := append([]string(nil), exprs...)
	if exprFile != "" {
		f, err := os.Open(exprFile)
		if err != nil {
			return nil, fmt.Errorf("expression file: %w", err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			out = append(out, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("expression file: %w", err)
		}
	}
	if len(out) == 0 {
		return nil, errNoExpressions
	}
	return out, nil
}

// parserOptions controls how expressions become a Parser.
type parserOptions struct {
	first  bool // stop at the first matching expression
	raw    bool // keep captured values as strings
	strict bool // fail on expressions that do not build
}

// buildParser builds one GrokParser per expression and chains them.
//
// Without strict, an expression that does not build is logged and skipped,
// so lines simply produce no records for it.
func buildParser(engine *grok.Engine, expressions []string, opts parserOptions, logger *slog.Logger) (acu.Parser, error) {
	parsers := make([]acu.Parser, 0, len(expressions))
	for i, expr := range expressions {
		p, err := acu.NewGrokParser(engine, expr, acu.WithRawValues(opts.raw))
		if err != nil {
			if opts.strict {
				return nil, fmt.Errorf("expression %d: %w", i+1, err)
			}
			logger.Warn("expression skipped", "index", i+1, "expression", expr, "error", err)
			continue
		}
		logger.Debug("expression ready", "index", i+1, "expression", p.Expression(), "id", uint64(p.ID()), "variables", p.Variables())
		parsers = append(parsers, p)
	}

	if len(parsers) == 1 {
		return parsers[0], nil
	}
	mode := acu.ChainAll
	if opts.first {
		mode = acu.ChainFirst
	}
	return &acu.ParserChain{Mode: mode, Parsers: parsers}, nil
}

// parserFlags are the expression flags shared by parse and tail.
type parserFlags struct {
	exprs        []string
	exprFile     string
	patternFiles []string
	first        bool
	rawValues    bool
	strict       bool
	matchTimeout time.Duration
}

func (pf *parserFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVarP(&pf.exprs, "express", "e", nil,
		"Grok expression (repeatable)")
	f.StringVar(&pf.exprFile, "express-file", "",
		"File with one grok expression per line")
	f.StringArrayVarP(&pf.patternFiles, "patterns", "p", nil,
		"Pattern file with extra templates, YAML or JSON (repeatable)")
	f.BoolVar(&pf.first, "first", false,
		"Stop at the first matching expression per line")
	f.BoolVar(&pf.rawValues, "raw-values", false,
		"Keep captured values as strings")
	f.BoolVar(&pf.strict, "strict", false,
		"Fail when an expression does not build")
	f.DurationVar(&pf.matchTimeout, "match-timeout", time.Second,
		"Per-line match timeout (0 disables)")
}

// build turns the flags into a Parser.
func (pf *parserFlags) build(logger *slog.Logger) (acu.Parser, error) {
	exprs, err := readExpressions(pf.exprs, pf.exprFile)
	if err != nil {
		return nil, err
	}
	engine, err := buildEngine(pf.patternFiles, pf.matchTimeout, logger)
	if err != nil {
		return nil, err
	}
	return buildParser(engine, exprs, parserOptions{
		first:  pf.first,
		raw:    pf.rawValues,
		strict: pf.strict,
	}, logger)
}
