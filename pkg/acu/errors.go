package acu

import (
	"errors"
	"fmt"

	"github.com/logacu/acu-go/internal/logfinder"
)

// Sentinel errors.
var (
	// ErrWatcherClosed is returned by Watch after Close.
	ErrWatcherClosed = errors.New("watcher closed")

	// ErrAlreadyWatching is returned when Watch is called twice.
	ErrAlreadyWatching = errors.New("watcher already watching")

	// ErrReplayLimitExceeded is returned when replaying the last lines of a
	// file would read more than the configured byte limits.
	ErrReplayLimitExceeded = errors.New("replay limit exceeded")

	// ErrNoLogFiles is returned when the watched directory has no file
	// matching the glob.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrLogDirNotFound is returned when no usable log directory is given.
	ErrLogDirNotFound = logfinder.ErrLogDirNotFound
)

// WatchOp identifies the watcher step that failed.
type WatchOp string

const (
	WatchOpFindLatest WatchOp = "find_latest"
	WatchOpTail       WatchOp = "tail"
	WatchOpReplay     WatchOp = "replay"
	WatchOpRotation   WatchOp = "rotation"
)

// WatchError reports a failure while following a log file.
type WatchError struct {
	Op   WatchOp
	Path string // empty when the failure is not tied to a file
	Err  error
}

func (e *WatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("watch %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("watch %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *WatchError) Unwrap() error {
	return e.Err
}

// ParseError reports a parser failure on one line.
type ParseError struct {
	Line string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
