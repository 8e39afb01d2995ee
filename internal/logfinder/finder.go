// Package logfinder locates log directories and the newest log file in them.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// EnvLogDir is the environment variable consulted when no directory is given.
const EnvLogDir = "ACU_LOG_DIR"

// DefaultGlob selects the files considered log files.
const DefaultGlob = "*.log"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// FindLogDir returns the log directory to watch.
//
// Priority:
//  1. explicit (if non-empty)
//  2. ACU_LOG_DIR environment variable
//
// The returned path has symlinks resolved.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified path is not a directory", ErrLogDirNotFound)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	return "", ErrLogDirNotFound
}

// candidate holds a log file path and its cached modification time.
type candidate struct {
	path    string
	modTime int64
}

// FindLatest returns the most recently modified regular file in dir whose
// name matches glob. An empty glob means DefaultGlob.
//
// Stat results are cached before sorting so that files removed in between
// cannot break the ordering.
func FindLatest(dir, glob string) (string, error) {
	if glob == "" {
		glob = DefaultGlob
	}
	matches, err := filepath.Glob(filepath.Join(dir, glob))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	candidates := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, candidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].modTime != candidates[j].modTime {
			return candidates[i].modTime > candidates[j].modTime
		}
		return candidates[i].path > candidates[j].path
	})
	return candidates[0].path, nil
}

// resolveDir resolves symlinks and returns the directory, or "" if dir is
// not a usable directory.
func resolveDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	return resolved
}
