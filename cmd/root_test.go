package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func loggerCmd(level string, json, noColor bool) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().String("log-level", level, "")
	cmd.Flags().Bool("json", json, "")
	cmd.Flags().Bool("no-color", noColor, "")
	return cmd
}

func TestInitializeLogger(t *testing.T) {
	for _, c := range []*cobra.Command{
		loggerCmd("info", false, false),
		loggerCmd("debug", false, false),
		loggerCmd("invalid", false, false),
		loggerCmd("info", true, false),
		loggerCmd("info", false, true),
	} {
		assert.NotPanics(t, func() { initializeLogger(c) })
	}
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "format", "doctor", "hooks", "config"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"log-level", "json", "no-color", "root"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	for _, flag := range []string{"check", "watch", "no-lint"} {
		assert.NotNil(t, formatCmd.Flags().Lookup(flag), flag)
	}
}

func TestNewRootCommandIsIsolated(t *testing.T) {
	a, b := newRootCommand(), newRootCommand()
	registerSubcommands(a)
	assert.NotEmpty(t, a.Commands())
	assert.Empty(t, b.Commands())
}
