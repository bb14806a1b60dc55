// Package hooks installs and runs woodfmt's git pre-commit integration.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/woodfmt/internal/doctor"
	"github.com/fulmenhq/woodfmt/internal/gitctx"
	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/format"
	"github.com/fulmenhq/woodfmt/pkg/logger"
)

// ToolChecker probes tool availability.
type ToolChecker interface {
	CheckAll(ctx context.Context, ts []doctor.Tool) doctor.Report
}

// Runner formats and re-stages the staged source files of a commit.
type Runner struct {
	Root      string
	Stager    gitctx.Stager
	Checker   ToolChecker
	Format    config.FormatConfig
	Transform format.Transform
	Out       io.Writer
}

// Run returns true when the commit may proceed. Stages run in order and the
// first failing file stops the run; files after it are left untouched.
func (r *Runner) Run(ctx context.Context) bool {
	report := r.Checker.CheckAll(ctx, doctor.LibraryTools())
	if !report.Ready {
		r.printf("❌ Formatting tools not available\n")
		for _, s := range report.Missing() {
			r.printf("  %s: %s\n", s.Name, s.Detail)
		}
		return false
	}

	staged, err := r.Stager.StagedFiles(ctx)
	if err != nil {
		logger.Warn("could not list staged files, skipping", logger.Err(err))
		return true
	}

	var files []string
	for _, f := range staged {
		if r.Format.HasExtension(f) {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		r.printf("No staged source files to format\n")
		return true
	}

	r.printf("🔧 Formatting %d staged files...\n", len(files))
	for _, rel := range files {
		abs := filepath.Join(r.Root, filepath.FromSlash(rel))
		if _, err := os.Stat(abs); errors.Is(err, os.ErrNotExist) {
			logger.Debug("staged file missing on disk, skipping", logger.String("path", rel))
			continue
		}

		o := format.ApplyFile(abs, r.Transform)
		if o.Err != nil {
			r.printf("❌ Failed to format %s: %v\n", rel, o.Err)
			return false
		}
		if err := r.Stager.Add(ctx, rel); err != nil {
			r.printf("❌ Failed to stage %s: %v\n", rel, err)
			return false
		}
		if o.Changed {
			r.printf("  formatted %s\n", rel)
		}
	}

	r.printf("✅ Staged files formatted\n")
	return true
}

func (r *Runner) printf(msg string, args ...any) {
	if r.Out != nil {
		_, _ = fmt.Fprintf(r.Out, msg, args...)
	}
}
