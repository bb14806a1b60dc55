/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"fmt"

	"github.com/fulmenhq/woodfmt/internal/doctor"
	"github.com/spf13/cobra"
)

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the formatting tools are available",
	Long: `Probe each tool the format pipeline uses and print one line per tool.

gofmt and goimports are built into woodfmt and are exercised on a sample file.
go and golangci-lint are external executables and are asked for their version.
Exits non-zero when any tool is unavailable.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, "🔍 Checking formatting tools...")
	ts := doctor.KnownFormatTools()
	report := doctor.NewChecker(a.exec, a.cfg.Tools.Timeout).CheckAll(cmd.Context(), ts)
	doctor.PrintReport(out, ts, report)

	if !report.Ready {
		return errReported
	}
	return nil
}
