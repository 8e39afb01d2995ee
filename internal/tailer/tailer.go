// Package tailer follows a growing file line by line.
package tailer

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/nxadm/tail"
)

// lineBuffer is the buffer size of the lines channel.
const lineBuffer = 64

// Config configures a Tailer.
type Config struct {
	// FromStart reads the existing content before following. Otherwise only
	// lines written after the tailer starts are delivered.
	FromStart bool

	// Poll checks the file for changes by polling instead of using
	// file system notifications.
	Poll bool

	// ReOpen reopens the file when it is truncated, moved or recreated.
	ReOpen bool

	// MustExist fails New when the file does not exist yet.
	MustExist bool
}

// DefaultConfig returns the configuration used by `acu tail`.
func DefaultConfig() Config {
	return Config{
		ReOpen:    true,
		MustExist: true,
	}
}

// Tailer delivers lines appended to a file.
type Tailer struct {
	t      *tail.Tail
	lines  chan string
	errs   chan error
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
	err    error
}

// New starts following path. The tailer stops when ctx is cancelled or Stop
// is called; both close the Lines and Errors channels.
func New(ctx context.Context, path string, cfg Config) (*Tailer, error) {
	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if cfg.FromStart {
		location = &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	}

	t, err := tail.TailFile(path, tail.Config{
		Location:  location,
		ReOpen:    cfg.ReOpen,
		MustExist: cfg.MustExist,
		Poll:      cfg.Poll,
		Follow:    true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	tr := &Tailer{
		t:      t,
		lines:  make(chan string, lineBuffer),
		errs:   make(chan error, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go tr.run(ctx)
	return tr, nil
}

// Lines returns the channel of lines, without the trailing newline.
func (t *Tailer) Lines() <-chan string {
	return t.lines
}

// Errors returns the channel of read errors.
func (t *Tailer) Errors() <-chan error {
	return t.errs
}

// Stop stops following the file and releases its resources.
// Safe to call multiple times.
func (t *Tailer) Stop() error {
	t.stop.Do(func() {
		t.cancel()
		<-t.done

		// The tail goroutine may be blocked sending a line nobody reads.
		go func() {
			for range t.t.Lines {
			}
		}()
		t.err = t.t.Stop()
		t.t.Cleanup()
	})
	return t.err
}

func (t *Tailer) run(ctx context.Context) {
	defer close(t.done)
	defer close(t.lines)
	defer close(t.errs)

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-t.t.Lines:
			if !ok {
				if err := t.t.Err(); err != nil && !errors.Is(err, context.Canceled) {
					t.sendError(ctx, err)
				}
				return
			}
			if line.Err != nil {
				t.sendError(ctx, line.Err)
				continue
			}
			select {
			case t.lines <- strings.TrimSuffix(line.Text, "\r"):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (t *Tailer) sendError(ctx context.Context, err error) {
	select {
	case t.errs <- err:
	case <-ctx.Done():
	default:
	}
}
