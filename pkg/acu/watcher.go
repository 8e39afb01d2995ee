package acu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/logacu/acu-go/internal/logfinder"
	"github.com/logacu/acu-go/internal/tailer"
)

// ReplayMode specifies how to handle lines already in the file.
type ReplayMode int

const (
	// ReplayNone only watches for new lines (default, tail -f behavior).
	ReplayNone ReplayMode = iota
	// ReplayFromStart reads from the beginning of the file.
	ReplayFromStart
	// ReplayLastN reads the last N lines before tailing.
	ReplayLastN
)

// DefaultMaxReplayLastN is the default maximum lines for ReplayLastN mode.
const DefaultMaxReplayLastN = 10000

// watcherErrBuffer is the buffer size for the error channel.
const watcherErrBuffer = 16

// ReplayConfig configures replay behavior.
type ReplayConfig struct {
	Mode  ReplayMode
	LastN int // For ReplayLastN
}

// Watcher follows a log file and emits a Record for every parsed line.
//
// With WithFile it follows one path. With WithLogDir it follows the newest
// file matching the glob and switches when a newer one appears.
type Watcher struct {
	cfg    watchConfig // immutable after creation
	logDir string
	log    *slog.Logger

	mu       sync.Mutex
	closed   bool
	cancel   context.CancelFunc
	doneCh   chan struct{}
	watching bool
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Watch starts watching and returns the record and error channels.
// Both channels close when ctx is cancelled, Close is called, or a fatal
// error occurs. Watch can only be called once per Watcher.
//
// Returns ErrWatcherClosed if the watcher has been closed.
// Returns ErrAlreadyWatching if Watch has already been called.
func (w *Watcher) Watch(ctx context.Context) (<-chan Record, <-chan error, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, nil, ErrWatcherClosed
	}
	if w.watching {
		return nil, nil, ErrAlreadyWatching
	}
	w.watching = true

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.doneCh = make(chan struct{})

	recCh := make(chan Record)
	errCh := make(chan error, watcherErrBuffer)

	go w.run(ctx, recCh, errCh)

	return recCh, errCh, nil
}

// Close stops the watcher and blocks until its goroutine has exited.
// Safe to call multiple times.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if w.cancel != nil {
		w.cancel()
	}
	doneCh := w.doneCh
	w.mu.Unlock()

	if doneCh != nil {
		<-doneCh
	}
	return nil
}

func (w *Watcher) tailerConfig(fromStart bool) tailer.Config {
	cfg := tailer.DefaultConfig()
	cfg.FromStart = fromStart
	cfg.Poll = w.cfg.poll
	return cfg
}

func (w *Watcher) run(ctx context.Context, recCh chan<- Record, errCh chan<- error) {
	defer close(w.doneCh)
	defer close(recCh)
	defer close(errCh)

	logFile, err := w.initialFile(ctx, errCh)
	if err != nil {
		return
	}
	w.log.Debug("following log file", "path", logFile)

	fromStart := w.cfg.replay.Mode == ReplayFromStart
	if w.cfg.replay.Mode == ReplayLastN && w.cfg.replay.LastN > 0 {
		w.log.Debug("replaying last N lines", "n", w.cfg.replay.LastN, "path", logFile)
		if err := w.replayLastN(ctx, logFile, recCh, errCh); err != nil {
			sendError(ctx, errCh, &WatchError{Op: WatchOpReplay, Path: logFile, Err: err})
		}
	}

	t, err := tailer.New(ctx, logFile, w.tailerConfig(fromStart))
	if err != nil {
		sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: logFile, Err: err})
		return
	}
	defer func() { _ = t.Stop() }()
	w.log.Debug("started tailing", "path", logFile, "from_start", fromStart)

	// A single file is reopened by the tailer itself; only directory mode
	// looks for newer files.
	var rotation <-chan time.Time
	if w.logDir != "" {
		ticker := time.NewTicker(w.cfg.pollInterval)
		defer ticker.Stop()
		rotation = ticker.C
	}

	currentFile := logFile
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.Lines():
			if !ok {
				return
			}
			w.processLine(ctx, line, recCh, errCh)
		case err, ok := <-t.Errors():
			if !ok {
				return
			}
			sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: currentFile, Err: err})
		case <-rotation:
			newFile, err := logfinder.FindLatest(w.logDir, w.cfg.glob)
			if err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpRotation, Err: err})
				continue
			}
			if newFile == currentFile {
				continue
			}
			w.log.Debug("log rotation detected", "from", currentFile, "to", newFile)
			newTailer, err := tailer.New(ctx, newFile, w.tailerConfig(true))
			if err != nil {
				sendError(ctx, errCh, &WatchError{Op: WatchOpTail, Path: newFile, Err: err})
				continue
			}
			_ = t.Stop()
			t = newTailer
			currentFile = newFile
		}
	}
}

// initialFile returns the file to follow. In directory mode it optionally
// waits for a matching file to appear. Errors are also sent to errCh.
func (w *Watcher) initialFile(ctx context.Context, errCh chan<- error) (string, error) {
	if w.logDir == "" {
		return w.cfg.file, nil
	}

	logFile, err := logfinder.FindLatest(w.logDir, w.cfg.glob)
	if err == nil {
		return logFile, nil
	}
	if !errors.Is(err, ErrNoLogFiles) || !w.cfg.waitForLogs {
		sendError(ctx, errCh, &WatchError{Op: WatchOpFindLatest, Path: w.logDir, Err: err})
		return "", err
	}

	w.log.Debug("no log files found, waiting", "dir", w.logDir, "poll_interval", w.cfg.pollInterval)
	ticker := time.NewTicker(w.cfg.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// sendError gives up once ctx is done.
			err := ctx.Err()
			select {
			case errCh <- &WatchError{Op: WatchOpFindLatest, Path: w.logDir, Err: err}:
			default:
			}
			return "", err
		case <-ticker.C:
			logFile, err := logfinder.FindLatest(w.logDir, w.cfg.glob)
			if err == nil {
				w.log.Debug("log file appeared", "path", logFile)
				return logFile, nil
			}
			if !errors.Is(err, ErrNoLogFiles) {
				sendError(ctx, errCh, &WatchError{Op: WatchOpFindLatest, Path: w.logDir, Err: err})
				return "", err
			}
		}
	}
}

// processLine parses one line and emits its records. Records produced
// alongside an error (ChainContinueOnError) are still emitted.
func (w *Watcher) processLine(ctx context.Context, line string, recCh chan<- Record, errCh chan<- error) {
	result, err := w.cfg.parser.ParseLine(ctx, line)
	if err == nil && !result.Matched {
		return
	}

	for _, rec := range result.Records {
		if !w.cfg.filter.Allows(rec.Pattern) {
			continue
		}
		if w.cfg.includeRawLine {
			rec.RawLine = line
		}
		select {
		case recCh <- rec:
		case <-ctx.Done():
			return
		}
	}

	if err != nil {
		sendError(ctx, errCh, &ParseError{Line: line, Err: err})
	}
}

// replayLastN parses the last N lines of logFile.
func (w *Watcher) replayLastN(ctx context.Context, logFile string, recCh chan<- Record, errCh chan<- error) error {
	lines, err := readLastNLines(logFile, w.cfg.replay.LastN, w.cfg.maxReplayBytes, w.cfg.maxReplayLineBytes)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.processLine(ctx, line, recCh, errCh)
	}
	return nil
}

// readLastNLines reads the last n non-empty lines of a file by scanning
// backwards in chunks. Lines are returned oldest first.
//
// maxBytes caps the total bytes read and maxLineBytes caps a single line;
// 0 disables either cap. Exceeding a cap returns ErrReplayLimitExceeded.
func readLastNLines(path string, n int, maxBytes int, maxLineBytes int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	offset := stat.Size()
	if offset == 0 || n <= 0 {
		return nil, nil
	}

	const chunkSize = 4096
	lines := make([]string, 0, n)
	var carry []byte // partial line following the current chunk
	totalBytes := 0

	for len(lines) < n && offset > 0 {
		readSize := min(int64(chunkSize), offset)
		offset -= readSize

		if maxBytes > 0 && totalBytes+int(readSize)+len(carry) > maxBytes {
			return nil, ErrReplayLimitExceeded
		}

		chunk := make([]byte, readSize, int(readSize)+len(carry))
		if _, err := file.ReadAt(chunk, offset); err != nil {
			return nil, err
		}
		totalBytes += int(readSize)
		chunk = append(chunk, carry...)

		found, rest := extractLinesBackward(chunk, n-len(lines), maxLineBytes)
		if rest == nil {
			return nil, ErrReplayLimitExceeded
		}
		if len(found) > 0 {
			lines = append(found, lines...)
		}
		// rest is the tail of a line that is still needed.
		if len(lines) < n && maxLineBytes > 0 && len(rest) > maxLineBytes {
			return nil, ErrReplayLimitExceeded
		}
		carry = rest
	}

	// The first line of the file has no newline before it.
	if offset == 0 && len(carry) > 0 && len(lines) < n {
		if maxLineBytes > 0 && len(carry) > maxLineBytes {
			return nil, ErrReplayLimitExceeded
		}
		if line := trimCR(string(carry)); line != "" {
			lines = append([]string{line}, lines...)
		}
	}
	return lines, nil
}

// extractLinesBackward returns up to maxLines complete non-empty lines from
// the end of buffer, oldest first, plus the bytes before the earliest
// newline it consumed. A nil remainder means a line exceeded maxLineBytes.
func extractLinesBackward(buffer []byte, maxLines int, maxLineBytes int) ([]string, []byte) {
	var lines []string
	end := len(buffer)

	for i := len(buffer) - 1; i >= 0 && len(lines) < maxLines; i-- {
		if buffer[i] != '\n' {
			continue
		}
		lineBytes := buffer[i+1 : end]
		if maxLineBytes > 0 && len(lineBytes) > maxLineBytes {
			return nil, nil
		}
		if line := trimCR(string(lineBytes)); line != "" {
			lines = append(lines, line)
		}
		end = i
	}

	// lines was built newest first.
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, buffer[:end:end]
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

// sendError sends err without blocking. Errors are dropped when the buffer
// is full or ctx is done.
func sendError(ctx context.Context, errCh chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errCh <- err:
	case <-ctx.Done():
	default:
	}
}

// Watch creates a watcher and starts it.
//
// The watcher stops when ctx is cancelled. Use NewWatcher and Watcher.Watch
// when a synchronous Close is needed.
//
// Example:
//
//	engine := grok.MustNew()
//	p, _ := acu.NewGrokParser(engine, "%{SYSLOGBASE} %{GREEDYDATA:message}")
//	records, errs, err := acu.Watch(ctx,
//	    acu.WithFile("/var/log/syslog"),
//	    acu.WithParser(p),
//	)
func Watch(ctx context.Context, opts ...WatchOption) (<-chan Record, <-chan error, error) {
	w, err := NewWatcher(opts...)
	if err != nil {
		return nil, nil, err
	}
	return w.Watch(ctx)
}

// NewWatcher creates a watcher using functional options.
// It validates the options and resolves the log directory but does not
// start any goroutine.
//
// Without WithFile, the directory comes from WithLogDir or ACU_LOG_DIR.
func NewWatcher(opts ...WatchOption) (*Watcher, error) {
	cfg := applyWatchOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	var logDir string
	if cfg.file == "" {
		dir, err := logfinder.FindLogDir(cfg.logDir)
		if err != nil {
			return nil, fmt.Errorf("finding log directory: %w", err)
		}
		logDir = dir
	}

	log := cfg.logger
	if log == nil {
		log = discardLogger
	}

	return &Watcher{
		cfg:    *cfg,
		logDir: logDir,
		log:    log,
	}, nil
}
