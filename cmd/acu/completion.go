package main

import (
	"io"

	"github.com/spf13/cobra"
)

var noDescriptions bool

// completionGenerators maps a shell name to its script generator.
var completionGenerators = map[string]func(root *cobra.Command, out io.Writer, descriptions bool) error{
	"bash": func(root *cobra.Command, out io.Writer, desc bool) error {
		return root.GenBashCompletionV2(out, desc)
	},
	"zsh": func(root *cobra.Command, out io.Writer, desc bool) error {
		if desc {
			return root.GenZshCompletion(out)
		}
		return root.GenZshCompletionNoDesc(out)
	},
	"fish": func(root *cobra.Command, out io.Writer, desc bool) error {
		return root.GenFishCompletion(out, desc)
	},
	"powershell": func(root *cobra.Command, out io.Writer, desc bool) error {
		if desc {
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return root.GenPowerShellCompletion(out)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion {bash|zsh|fish|powershell}",
	Short: "Print a shell completion script",
	Long: `Print a completion script for acu. Flag values such as --format and
template names for "acu patterns" complete as well.

  bash:        source <(acu completion bash)
  zsh:         acu completion zsh > "${fpath[1]}/_acu"
  fish:        acu completion fish > ~/.config/fish/completions/acu.fish
  powershell:  acu completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := completionGenerators[args[0]]
		return gen(cmd.Root(), cmd.OutOrStdout(), !noDescriptions)
	},
}

// completeFormats completes the --format flag.
func completeFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"jsonl\tone JSON object per line",
		"pretty\t[pattern] key=value",
		"yaml\tYAML documents",
	}, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	completionCmd.Flags().BoolVar(&noDescriptions, "no-descriptions", false,
		"Omit completion descriptions")
	rootCmd.AddCommand(completionCmd)
}
