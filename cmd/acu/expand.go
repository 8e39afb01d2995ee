package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logacu/acu-go/pkg/grok"
)

var expandFiles []string

var expandCmd = &cobra.Command{
	Use:   "expand EXPRESSION",
	Short: "Show the regular expression a grok expression compiles to",
	Long: `Expand and compile a grok expression, then print the final regular
expression and the field name of each capture group.

Exits with an error if the expression refers to an unknown template or
does not compile.

Examples:
  acu expand '%{IP:client} %{WORD:method}'
  acu expand -p patterns.yaml '%{MYAPP}'`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().StringArrayVarP(&expandFiles, "patterns", "p", nil,
		"Pattern file with extra templates, YAML or JSON (repeatable)")
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	engine, err := buildEngine(expandFiles, 0, logger)
	if err != nil {
		return err
	}
	return expandExpression(engine, args[0], cmd.OutOrStdout())
}

// expandExpression builds expression and writes its final text followed by
// a GROUP/FIELD table.
func expandExpression(engine *grok.Engine, expression string, out io.Writer) error {
	if err := engine.Check(expression); err != nil {
		return err
	}
	id, final := engine.Build(expression)
	if id == 0 {
		return fmt.Errorf("expression %q did not build", expression)
	}

	if _, err := fmt.Fprintln(out, final); err != nil {
		return err
	}
	vars := engine.Variables(id)
	if len(vars) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "GROUP\tFIELD")
	for i, v := range vars {
		fmt.Fprintf(tw, "%d\t%s\n", i+1, v)
	}
	return tw.Flush()
}
