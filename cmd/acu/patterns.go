package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logacu/acu-go/pkg/grok"
)

var (
	// patterns flags
	patternsFiles  []string
	patternsExpand bool
)

var patternsCmd = &cobra.Command{
	Use:   "patterns [NAME...]",
	Short: "List available templates",
	Long: `List built-in templates and templates loaded from pattern files.

With names, only those templates are shown. With --expand, the fully
expanded regular expression is shown instead of the template body.

Examples:
  acu patterns
  acu patterns IP SYSLOGBASE --expand
  acu patterns -p patterns.yaml`,
	ValidArgsFunction: completeTemplateNames,
	RunE:              runPatterns,
}

func init() {
	patternsCmd.Flags().StringArrayVarP(&patternsFiles, "patterns", "p", nil,
		"Pattern file with extra templates, YAML or JSON (repeatable)")
	patternsCmd.Flags().BoolVar(&patternsExpand, "expand", false,
		"Show the expanded regular expression")
	rootCmd.AddCommand(patternsCmd)
}

func runPatterns(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr())
	engine, err := buildEngine(patternsFiles, 0, logger)
	if err != nil {
		return err
	}
	return listPatterns(engine, args, patternsExpand, cmd.OutOrStdout())
}

// completeTemplateNames completes built-in template names not already given.
func completeTemplateNames(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	engine, err := grok.New()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, t := range engine.Builtins() {
		if strings.HasPrefix(t.Name, toComplete) && !slices.Contains(args, t.Name) {
			names = append(names, t.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// listPatterns writes a SOURCE/NAME/PATTERN table. External templates
// shadow built-ins of the same name.
func listPatterns(engine *grok.Engine, names []string, expand bool, out io.Writer) error {
	type row struct {
		source, name, body string
	}

	var rows []row
	external := make(map[string]bool)
	for _, t := range engine.Patterns() {
		external[t.Name] = true
		rows = append(rows, row{"external", t.Name, t.Expression})
	}
	for _, t := range engine.Builtins() {
		if !external[t.Name] {
			rows = append(rows, row{"builtin", t.Name, t.Expression})
		}
	}

	if len(names) > 0 {
		var missing []string
		filtered := make([]row, 0, len(names))
		for _, name := range names {
			i := slices.IndexFunc(rows, func(r row) bool { return r.name == name })
			if i < 0 {
				missing = append(missing, name)
				continue
			}
			filtered = append(filtered, rows[i])
		}
		if len(missing) > 0 {
			return fmt.Errorf("unknown template: %s", strings.Join(missing, ", "))
		}
		rows = filtered
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tNAME\tPATTERN")
	for _, r := range rows {
		body := r.body
		if expand {
			body, _ = engine.Expand("%{" + r.name + "}")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.source, r.name, body)
	}
	return tw.Flush()
}
