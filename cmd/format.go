/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulmenhq/woodfmt/internal/doctor"
	"github.com/fulmenhq/woodfmt/internal/lint"
	"github.com/fulmenhq/woodfmt/pkg/format"
	"github.com/fulmenhq/woodfmt/pkg/logger"
	"github.com/spf13/cobra"
)

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Sort imports, apply gofmt style and lint",
	Long: `Format the Go sources under the format root.

Imports are grouped and sorted first, then gofmt style is applied, then the
configured linter runs. Lint findings are reported but never fail the command.`,
	Args: cobra.NoArgs,
	RunE: runFormat,
}

func init() {
	formatCmd.Flags().Bool("check", false, "Report files that need formatting without modifying them")
	formatCmd.Flags().Bool("watch", false, "Keep running and format files as they change")
	formatCmd.Flags().Bool("no-lint", false, "Skip the lint pass")
}

func runFormat(cmd *cobra.Command, _ []string) error {
	checkOnly, _ := cmd.Flags().GetBool("check")
	watch, _ := cmd.Flags().GetBool("watch")
	noLint, _ := cmd.Flags().GetBool("no-lint")
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	root := a.cfg.Format.ResolveRoot(a.root)

	files, err := format.Discover(root, a.cfg.Format)
	if err != nil {
		_, _ = fmt.Fprintf(out, "❌ Source directory not found: %s\n", root)
		return fmt.Errorf("%w: %v", errReported, err)
	}

	report := doctor.NewChecker(a.exec, a.cfg.Tools.Timeout).CheckAll(ctx, doctor.LibraryTools())
	if !report.Ready {
		_, _ = fmt.Fprintln(out, "❌ Formatting tools not available. Run 'woodfmt doctor' for details")
		return errReported
	}

	_, _ = fmt.Fprintf(out, "🔧 Formatting Go code in %s...\n", root)
	logger.Info("discovered source files", logger.Int("count", len(files)), logger.String("root", root))

	pending := false
	for _, t := range []format.Transform{format.Imports(a.cfg.Format.LocalPrefix), format.Style()} {
		if runTransform(out, files, t, checkOnly) {
			pending = true
		}
	}

	if checkOnly {
		if pending {
			_, _ = fmt.Fprintln(out, "❌ Formatting changes needed. Run 'woodfmt format' to apply them")
			return errReported
		}
		_, _ = fmt.Fprintln(out, "✅ All files formatted")
		return nil
	}

	if !noLint {
		runLint(ctx, out, a, root)
	}
	_, _ = fmt.Fprintln(out, "✅ Code formatting complete!")

	if watch {
		return watchRoot(ctx, out, a, root)
	}
	return nil
}

// runTransform checks files and, unless checkOnly, applies t to the ones
// that would change. It reports whether any file was pending.
func runTransform(out io.Writer, files []string, t format.Transform, checkOnly bool) bool {
	res := format.Check(files, t)
	if format.ReportCheck(out, t, res) {
		return false
	}
	if !checkOnly {
		format.ReportApply(out, t, format.Apply(res.Changed(), t))
	}
	return true
}

func runLint(ctx context.Context, out io.Writer, a *app, root string) {
	_, _ = fmt.Fprintf(out, "🔍 Running %s...\n", a.cfg.Lint.String())
	res := lint.NewRunner(a.exec, a.cfg.Lint).Run(ctx, root)
	if res.Passed {
		_, _ = fmt.Fprintf(out, "✅ %s\n", res.Message)
		return
	}
	_, _ = fmt.Fprintf(out, "⚠️  Lint issues found:\n%s\n", res.Message)
}

func watchRoot(ctx context.Context, out io.Writer, a *app, root string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(out, "👀 Watching %s for changes (Ctrl+C to stop)\n", root)
	w := format.NewWatcher(root, a.cfg.Format, format.Pipeline(a.cfg.Format.LocalPrefix), out)
	return w.Watch(ctx)
}
