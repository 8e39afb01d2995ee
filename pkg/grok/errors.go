package grok

import (
	"errors"
	"fmt"
)

// Sentinel errors reported by Check and written to the engine log.
var (
	// ErrEmptyExpression is returned for an empty expression or template body.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrTemplateNotFound is returned when a placeholder names no known template.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrCycle is returned when a template references itself, directly or indirectly.
	ErrCycle = errors.New("template reference cycle")

	// ErrDepthExceeded is returned when template nesting exceeds the configured depth.
	ErrDepthExceeded = errors.New("template nesting too deep")

	// ErrCaptureMismatch is returned when the compiled expression has a different
	// number of capture groups than named fields.
	ErrCaptureMismatch = errors.New("capture groups do not match fields")

	// ErrInvalidName is returned for template names that cannot be referenced
	// from a placeholder.
	ErrInvalidName = errors.New("invalid template name")
)

// ExpandError describes a failure while expanding a template placeholder.
type ExpandError struct {
	Template string // Template name at which expansion stopped
	Path     []string
	Cause    error
}

func (e *ExpandError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("expand %%{%s}: %v (via %v)", e.Template, e.Cause, e.Path)
	}
	return fmt.Sprintf("expand %%{%s}: %v", e.Template, e.Cause)
}

// Unwrap returns the underlying cause of the error.
func (e *ExpandError) Unwrap() error {
	return e.Cause
}

// CompileError describes a final expression the regex engine rejected.
type CompileError struct {
	Expression string
	Cause      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %q: %v", e.Expression, e.Cause)
}

// Unwrap returns the underlying cause of the error.
func (e *CompileError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a schema-level problem in a pattern file.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// PatternError represents a problem with one template in a pattern file.
type PatternError struct {
	Index   int    // 0-based position of the template in the file
	Name    string // Template name (may be empty if the name is missing)
	Field   string
	Message string
	Cause   error
}

func (e *PatternError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("pattern %q: %s: %s", e.Name, e.Field, e.Message)
	}
	return fmt.Sprintf("pattern[%d]: %s: %s", e.Index, e.Field, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}
