// Command acu extracts structured fields from log lines with grok expressions.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "acu",
	Short: "Grok-based log field extraction",
	Long: `acu matches log lines against grok expressions and prints the captured
fields as structured records.

A grok expression is a regular expression with %{NAME} and %{NAME:field}
placeholders that refer to named templates. Around 150 templates are built
in; more can be loaded from pattern files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug output to stderr")
}

// newLogger returns the logger shared by all commands. Warnings are always
// shown; --verbose adds debug output.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
