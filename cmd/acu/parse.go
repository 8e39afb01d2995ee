package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/logacu/acu-go/internal/safefile"
	"github.com/logacu/acu-go/pkg/acu"
)

// batchSize is the number of lines handed to a worker at once.
const batchSize = 256

var (
	// parse flags
	parseFlags   parserFlags
	parseFormat  string
	parseWorkers int
	parseRawLine bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse log files with grok expressions",
	Long: `Parse log lines with one or more grok expressions and print one record
per match. Reads standard input when no file (or "-") is given.

Records are printed in input order, even with several workers.

Examples:
  # Parse an access log
  acu parse -e '%{COMBINEDAPACHELOG}' access.log

  # Try several expressions, keep the first match per line
  acu parse --first -e '%{SYSLOGBASE} %{GREEDYDATA:message}' -e '%{GREEDYDATA:line}' /var/log/syslog

  # Load extra templates and print YAML
  acu parse -p patterns.yaml -e '%{MYAPP}' -f yaml app.log

  # Pipe to jq
  cat app.log | acu parse -e '%{LOGLEVEL:level} %{GREEDYDATA:msg}' | jq 'select(.fields.level == "ERROR")'`,
	RunE: runParse,
}

func init() {
	parseFlags.register(parseCmd)
	f := parseCmd.Flags()
	f.StringVarP(&parseFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty, yaml")
	f.IntVarP(&parseWorkers, "workers", "w", runtime.GOMAXPROCS(0),
		"Number of parallel workers")
	f.BoolVar(&parseRawLine, "raw", false,
		"Include raw log lines in output")

	_ = parseCmd.RegisterFlagCompletionFunc("format", completeFormats)
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr())

	if parseWorkers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", parseWorkers)
	}
	parser, err := parseFlags.build(logger)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	w, err := NewRecordWriter(parseFormat, out)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		if err := parseInput(ctx, path, cmd.InOrStdin(), parser, w.Write, logger); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	return out.Flush()
}

// parseInput parses one file, or stdin for "-".
func parseInput(ctx context.Context, path string, stdin io.Reader, p acu.Parser, emit func(acu.Record) error, logger *slog.Logger) error {
	if path == "-" {
		return parseStream(ctx, stdin, p, parseWorkers, parseRawLine, emit, logger)
	}
	f, _, err := safefile.OpenRegular(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	logger.Debug("parsing file", "path", path)
	return parseStream(ctx, f, p, parseWorkers, parseRawLine, emit, logger)
}

type batch struct {
	seq   int
	lines []string
}

type batchResult struct {
	seq     int
	records []acu.Record
}

// parseStream parses r with a pool of workers and calls emit for every
// record in input order. Parser errors are logged and the line skipped.
func parseStream(ctx context.Context, r io.Reader, p acu.Parser, workers int, includeRaw bool, emit func(acu.Record) error, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan batch, workers)
	results := make(chan batchResult, workers)

	// Reader.
	g.Go(func() error {
		defer close(batches)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), acu.DefaultMaxLineBytes)

		seq := 0
		lines := make([]string, 0, batchSize)
		flush := func() bool {
			select {
			case batches <- batch{seq: seq, lines: lines}:
				seq++
				lines = make([]string, 0, batchSize)
				return true
			case <-ctx.Done():
				return false
			}
		}
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
			if len(lines) == batchSize && !flush() {
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if len(lines) > 0 && !flush() {
			return ctx.Err()
		}
		return nil
	})

	// Workers.
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for b := range batches {
				var recs []acu.Record
				for _, line := range b.lines {
					line = trimCR(line)
					if line == "" {
						continue
					}
					result, err := p.ParseLine(ctx, line)
					if err != nil {
						if ctx.Err() != nil {
							return ctx.Err()
						}
						logger.Warn("parse error", "line", line, "error", err)
					}
					for _, rec := range result.Records {
						if includeRaw {
							rec.RawLine = line
						}
						recs = append(recs, rec)
					}
				}
				select {
				case results <- batchResult{seq: b.seq, records: recs}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	// Writer: batches are released strictly in sequence order.
	g.Go(func() error {
		pending := make(map[int][]acu.Record)
		next := 0
		for res := range results {
			pending[res.seq] = res.records
			for {
				recs, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				for _, rec := range recs {
					if err := emit(rec); err != nil {
						return fmt.Errorf("output error: %w", err)
					}
				}
			}
		}
		return nil
	})

	return g.Wait()
}

func trimCR(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\r' {
		return s[:n-1]
	}
	return s
}
