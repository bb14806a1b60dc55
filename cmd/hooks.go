/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/woodfmt/internal/doctor"
	"github.com/fulmenhq/woodfmt/internal/gitctx"
	"github.com/fulmenhq/woodfmt/internal/hooks"
	"github.com/fulmenhq/woodfmt/pkg/buildinfo"
	"github.com/fulmenhq/woodfmt/pkg/format"
	"github.com/spf13/cobra"
)

// hooksCmd represents the hooks command
var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the git pre-commit hook",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit hook into .git/hooks",
	Long: `Write a pre-commit hook that runs 'woodfmt hooks run' before every commit.
An existing pre-commit hook is replaced.`,
	Args: cobra.NoArgs,
	RunE: runHooksInstall,
}

var hooksRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Format and re-stage staged Go files (called by the hook)",
	Args:  cobra.NoArgs,
	RunE:  runHooksRun,
}

func init() {
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksRunCmd)
}

func runHooksInstall(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	rootFlag, _ := cmd.Flags().GetString("root")

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate woodfmt executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	i := &hooks.Installer{Root: rootFlag, Executable: exe, Version: buildinfo.BinaryVersion}
	path, err := i.Install()
	if errors.Is(err, hooks.ErrNoRepository) {
		_, _ = fmt.Fprintln(out, "❌ No git repository found. Initialize git first with 'git init'")
		return fmt.Errorf("%w: %v", errReported, err)
	}
	if err != nil {
		_, _ = fmt.Fprintf(out, "❌ Failed to install pre-commit hook: %v\n", err)
		return fmt.Errorf("%w: %v", errReported, err)
	}

	_, _ = fmt.Fprintf(out, "✅ Pre-commit hook installed: %s\n", path)
	_, _ = fmt.Fprintln(out, "💡 Staged Go files will be formatted before each commit")
	return nil
}

func runHooksRun(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	r := &hooks.Runner{
		Root:      a.root,
		Stager:    gitctx.NewStager(a.root, a.exec),
		Checker:   doctor.NewChecker(a.exec, a.cfg.Tools.Timeout),
		Format:    a.cfg.Format,
		Transform: format.Pipeline(a.cfg.Format.LocalPrefix),
		Out:       cmd.OutOrStdout(),
	}
	if !r.Run(cmd.Context()) {
		return errReported
	}
	return nil
}
