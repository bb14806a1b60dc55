/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/fulmenhq/woodfmt/pkg/buildinfo"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show woodfmt version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("extended", false, "Show build information")
	versionCmd.Flags().Bool("json", false, "Output version information in JSON format")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	extended, _ := cmd.Flags().GetBool("extended")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	info := map[string]string{
		"version":   buildinfo.BinaryVersion,
		"goVersion": runtime.Version(),
		"platform":  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if mv := buildinfo.ModuleVersion(); mv != "" {
		info["moduleVersion"] = mv
	}

	if jsonOutput {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	_, _ = fmt.Fprintf(out, "woodfmt %s\n", info["version"])
	if extended {
		if mv, ok := info["moduleVersion"]; ok {
			_, _ = fmt.Fprintf(out, "Module version: %s\n", mv)
		}
		_, _ = fmt.Fprintf(out, "Go version: %s\n", info["goVersion"])
		_, _ = fmt.Fprintf(out, "Platform: %s\n", info["platform"])
	}
	return nil
}
