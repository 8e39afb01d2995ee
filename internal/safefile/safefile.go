// Package safefile provides hardened file reads for pattern and input files.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets
	// and directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrTooLarge is returned when a file exceeds the size limit given to
	// ReadLimited.
	ErrTooLarge = errors.New("file too large")

	// ErrEmptyFile is returned by ReadLimited for a zero-length file.
	ErrEmptyFile = errors.New("file is empty")
)

// OpenRegular opens path and verifies that it is a regular file.
//
// The path is checked with os.Lstat so symlinks are rejected, then the
// opened descriptor is stat'ed again in case the file was swapped between
// the two calls. There is still a small window between Lstat and Open;
// Go does not expose O_NOFOLLOW portably.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}
	return f, info, nil
}

// ReadLimited reads a whole regular file of at most limit bytes.
// The size is checked both before and during the read, so a file that grows
// after it was opened is still rejected.
func ReadLimited(path string, limit int64) ([]byte, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), limit)
	}
	return data, nil
}
