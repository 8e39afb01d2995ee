package grok

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/logacu/acu-go/internal/safefile"
)

const (
	// MaxPatternFileSize is the maximum allowed size for a pattern file (1MB).
	MaxPatternFileSize = 1 * 1024 * 1024

	// MaxPatternLength is the maximum allowed length of one template body.
	MaxPatternLength = 4096

	// MaxPatternCount is the maximum number of templates in a pattern file.
	MaxPatternCount = 1000

	// SupportedVersion is the currently supported pattern file format version.
	SupportedVersion = 1
)

// PatternFile is a set of templates loaded from YAML or JSON.
//
// Two layouts are accepted. The versioned layout:
//
//	version: 1
//	patterns:
//	  - name: NGINX_TS
//	    pattern: '%{YEAR}/%{MONTHNUM}/%{MONTHDAY} %{TIME}'
//
// and a flat mapping of names to bodies, as used by plain JSON pattern files:
//
//	{"NGINX_TS": "%{YEAR}/%{MONTHNUM}/%{MONTHDAY} %{TIME}"}
//
// Templates keep the order they appear in the file.
type PatternFile struct {
	Version  int        `yaml:"version"`
	Patterns []Template `yaml:"patterns"`
}

// sanitizePathError removes the path from os.PathError so that error
// messages do not expose file system layout.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

// Load reads and parses a pattern file from path.
// Only regular files up to MaxPatternFileSize are accepted.
func Load(path string) (*PatternFile, error) {
	data, err := safefile.ReadLimited(path, MaxPatternFileSize)
	if err != nil {
		switch {
		case errors.Is(err, safefile.ErrNotRegularFile):
			return nil, errors.New("pattern file must be a regular file (not FIFO, device, or special file)")
		case errors.Is(err, safefile.ErrEmptyFile):
			return nil, errors.New("pattern file is empty")
		case errors.Is(err, safefile.ErrTooLarge):
			return nil, fmt.Errorf("pattern file too large: %w", err)
		}
		return nil, fmt.Errorf("failed to read pattern file: %w", sanitizePathError(err))
	}
	return LoadBytes(data)
}

// LoadBytes parses a pattern file from a byte slice.
func LoadBytes(data []byte) (*PatternFile, error) {
	if len(data) == 0 {
		return nil, errors.New("pattern file is empty")
	}
	if len(data) > MaxPatternFileSize {
		return nil, fmt.Errorf("pattern file too large: %d bytes (max %d)", len(data), MaxPatternFileSize)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, &ValidationError{Field: "(root)", Message: "expected a mapping"}
	}
	root := doc.Content[0]

	var pf PatternFile
	if isVersioned(root) {
		if err := root.Decode(&pf); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	} else {
		pf.Version = SupportedVersion
		for i := 0; i+1 < len(root.Content); i += 2 {
			key, value := root.Content[i], root.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return nil, &PatternError{
					Index:   i / 2,
					Name:    key.Value,
					Field:   "pattern",
					Message: "pattern must be a string",
				}
			}
			pf.Patterns = append(pf.Patterns, Template{Name: key.Value, Expression: value.Value})
		}
	}

	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return &pf, nil
}

// isVersioned reports whether a mapping uses the version/patterns layout.
func isVersioned(root *yaml.Node) bool {
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "patterns" && root.Content[i+1].Kind == yaml.SequenceNode {
			return true
		}
	}
	return false
}

// Validate performs schema-level validation on the pattern file.
// It checks the version, the template count, required fields, name
// uniqueness and body length. Bodies are not expanded here.
func (pf *PatternFile) Validate() error {
	if pf.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", pf.Version, SupportedVersion),
		}
	}
	if len(pf.Patterns) == 0 {
		return &ValidationError{
			Field:   "patterns",
			Message: "at least one pattern is required",
		}
	}
	if len(pf.Patterns) > MaxPatternCount {
		return &ValidationError{
			Field:   "patterns",
			Message: fmt.Sprintf("too many patterns (%d), maximum allowed is %d", len(pf.Patterns), MaxPatternCount),
		}
	}

	seen := make(map[string]int, len(pf.Patterns))
	for i, p := range pf.Patterns {
		if p.Name == "" {
			return &PatternError{Index: i, Field: "name", Message: "name is required"}
		}
		if !validName(p.Name) {
			return &PatternError{
				Index:   i,
				Name:    p.Name,
				Field:   "name",
				Message: "name must not contain ':', braces or whitespace",
				Cause:   ErrInvalidName,
			}
		}
		if p.Expression == "" {
			return &PatternError{Index: i, Name: p.Name, Field: "pattern", Message: "pattern is required"}
		}
		if prev, exists := seen[p.Name]; exists {
			return &PatternError{
				Index:   i,
				Name:    p.Name,
				Field:   "name",
				Message: fmt.Sprintf("duplicate name (previously defined at pattern[%d])", prev),
			}
		}
		seen[p.Name] = i

		if len(p.Expression) > MaxPatternLength {
			return &PatternError{
				Index:   i,
				Name:    p.Name,
				Field:   "pattern",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(p.Expression), MaxPatternLength),
			}
		}
	}
	return nil
}

// LoadPatterns registers the templates of pf in file order and returns how
// many were stored.
func (e *Engine) LoadPatterns(pf *PatternFile) int {
	if pf == nil {
		return 0
	}
	n := 0
	for _, p := range pf.Patterns {
		if e.AddPattern(p.Name, p.Expression) {
			n++
		}
	}
	return n
}
