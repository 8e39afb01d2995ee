package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetArgs([]string{"completion", shell})
			t.Cleanup(func() { rootCmd.SetArgs(nil) })

			require.NoError(t, rootCmd.Execute())
			assert.Contains(t, out.String(), "acu")
		})
	}
}

func TestCompletionCommand_UnknownShell(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"completion", "tcsh"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}

func TestCompleteFormats(t *testing.T) {
	got, directive := completeFormats(nil, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	require.Len(t, got, len(ValidFormats))
	for _, c := range got {
		name, _, _ := bytes.Cut([]byte(c), []byte("\t"))
		assert.True(t, ValidFormats[string(name)], c)
	}
}

func TestCompleteTemplateNames(t *testing.T) {
	got, directive := completeTemplateNames(nil, []string{"IPV4"}, "IPV")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Contains(t, got, "IPV6")
	assert.NotContains(t, got, "IPV4")
	for _, name := range got {
		assert.Regexp(t, `^IPV`, name)
	}
}
