package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/logacu/acu-go/pkg/acu"
)

// ValidFormats lists all valid output formats.
var ValidFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
	"yaml":   true,
}

// RecordWriter writes records in one output format.
type RecordWriter struct {
	format string
	out    io.Writer
	yenc   *yaml.Encoder
}

// NewRecordWriter returns a writer for format, or an error for an unknown
// format.
func NewRecordWriter(format string, out io.Writer) (*RecordWriter, error) {
	if !ValidFormats[format] {
		return nil, fmt.Errorf("unknown format: %s (valid: jsonl, pretty, yaml)", format)
	}
	w := &RecordWriter{format: format, out: out}
	if format == "yaml" {
		w.yenc = yaml.NewEncoder(out)
		w.yenc.SetIndent(2)
	}
	return w, nil
}

// Write writes one record.
func (w *RecordWriter) Write(rec acu.Record) error {
	switch w.format {
	case "jsonl":
		return OutputJSON(rec, w.out)
	case "pretty":
		return OutputPretty(rec, w.out)
	default:
		return w.yenc.Encode(rec)
	}
}

// Close flushes buffered YAML output.
func (w *RecordWriter) Close() error {
	if w.yenc != nil {
		return w.yenc.Close()
	}
	return nil
}

// OutputJSON writes a record as one JSON line.
func OutputJSON(rec acu.Record, out io.Writer) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes a record as "[pattern] key=value ...".
func OutputPretty(rec acu.Record, out io.Writer) error {
	var err error
	if len(rec.Fields) > 0 {
		_, err = fmt.Fprintf(out, "[%s] %s\n", rec.Pattern, formatFields(rec.Fields))
	} else {
		_, err = fmt.Fprintf(out, "[%s]\n", rec.Pattern)
	}
	if err == nil && rec.RawLine != "" {
		_, err = fmt.Fprintf(out, "  | %s\n", rec.RawLine)
	}
	return err
}

// formatFields formats a map as sorted key=value pairs.
func formatFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(fields))
	for _, k := range keys {
		parts = append(parts, quoteIfNeeded(k)+"="+quoteIfNeeded(fmt.Sprint(fields[k])))
	}
	return strings.Join(parts, " ")
}

// quoteIfNeeded quotes a value if it contains spaces, equals signs, quotes,
// backslashes or control characters.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}

	needsQuote := strings.ContainsFunc(v, func(c rune) bool {
		return c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F
	})
	if !needsQuote {
		return v
	}

	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			fmt.Fprintf(&sb, `\x%02x`, c)
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
