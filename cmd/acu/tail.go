package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/logacu/acu-go/pkg/acu"
)

var (
	// tail flags
	tailFlags        parserFlags
	tailFormat       string
	tailRawLine      bool
	tailFromStart    bool
	tailPoll         bool
	tailLogDir       string
	tailGlob         string
	tailReplayLast   int
	tailWait         bool
	tailPollInterval time.Duration
)

var tailCmd = &cobra.Command{
	Use:   "tail [file]",
	Short: "Follow a log file and print parsed records",
	Long: `Follow a growing log file and print one record per match, like tail -f.

Without a file argument, the newest file matching --glob in --log-dir
(or the ACU_LOG_DIR environment variable) is followed, switching to newer
files as they appear.

Examples:
  # Follow a file
  acu tail -e '%{SYSLOGBASE} %{GREEDYDATA:message}' /var/log/syslog

  # Read the whole file first
  acu tail --from-start -e '%{COMBINEDAPACHELOG}' access.log

  # Follow the newest *.log in a directory, replaying its last 100 lines
  acu tail --log-dir /var/log/myapp --replay-last 100 -e '%{LOGLEVEL:level} %{GREEDYDATA:msg}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTail,
}

func init() {
	tailFlags.register(tailCmd)
	f := tailCmd.Flags()
	f.StringVarP(&tailFormat, "format", "f", "jsonl",
		"Output format: jsonl, pretty, yaml")
	f.BoolVar(&tailRawLine, "raw", false,
		"Include raw log lines in output")
	f.BoolVar(&tailFromStart, "from-start", false,
		"Read the file from the beginning before following")
	f.BoolVar(&tailPoll, "poll", false,
		"Poll for changes instead of using file system notifications")
	f.StringVarP(&tailLogDir, "log-dir", "d", "",
		"Follow the newest matching file in this directory")
	f.StringVar(&tailGlob, "glob", "*.log",
		"File name pattern used with --log-dir")
	f.IntVar(&tailReplayLast, "replay-last", 0,
		"Replay the last N lines before following (0 = disabled)")
	f.BoolVar(&tailWait, "wait", false,
		"Wait for a matching file to appear in --log-dir")
	f.DurationVar(&tailPollInterval, "poll-interval", 2*time.Second,
		"How often to look for a newer file in --log-dir")

	tailCmd.MarkFlagsMutuallyExclusive("from-start", "replay-last")
	_ = tailCmd.RegisterFlagCompletionFunc("format", completeFormats)
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr())

	parser, err := tailFlags.build(logger)
	if err != nil {
		return err
	}
	w, err := NewRecordWriter(tailFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer w.Close()

	opts := []acu.WatchOption{
		acu.WithParser(parser),
		acu.WithIncludeRawLine(tailRawLine),
		acu.WithPolling(tailPoll),
		acu.WithLogger(logger),
	}
	switch {
	case len(args) == 1:
		if tailLogDir != "" {
			return fmt.Errorf("a file argument and --log-dir are mutually exclusive")
		}
		opts = append(opts, acu.WithFile(args[0]))
	default:
		opts = append(opts,
			acu.WithLogDir(tailLogDir),
			acu.WithGlob(tailGlob),
			acu.WithWaitForLogs(tailWait),
			acu.WithPollInterval(tailPollInterval),
		)
	}
	switch {
	case tailFromStart:
		opts = append(opts, acu.WithReplayFromStart())
	case tailReplayLast > 0:
		opts = append(opts, acu.WithReplayLastN(tailReplayLast))
	case tailReplayLast < 0:
		return fmt.Errorf("--replay-last must be non-negative, got %d", tailReplayLast)
	}

	watcher, err := acu.NewWatcher(opts...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	records, errs, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	return tailLoop(ctx, records, errs, w, logger)
}

// tailLoop writes records until the channels close or ctx is done.
// Errors are logged; the last watch error is returned if the watcher
// stops on its own.
func tailLoop(ctx context.Context, records <-chan acu.Record, errs <-chan error, w *RecordWriter, logger *slog.Logger) error {
	var lastWatchErr error
	for {
		select {
		case rec, ok := <-records:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				// errs is closed before records.
				if errs != nil {
					for err := range errs {
						logger.Warn("watch", "error", err)
						var we *acu.WatchError
						if errors.As(err, &we) {
							lastWatchErr = err
						}
					}
				}
				return lastWatchErr
			}
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			var we *acu.WatchError
			if errors.As(err, &we) {
				lastWatchErr = err
			}
			logger.Warn("watch", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
