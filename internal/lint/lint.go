// Package lint runs the project's external linter after formatting.
package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/logger"
	"github.com/fulmenhq/woodfmt/pkg/tools"
)

// maxOutputLines caps how much linter output is echoed back.
const maxOutputLines = 20

// Result is the outcome of one lint pass. A failed pass is informational.
type Result struct {
	Passed  bool
	Message string
}

// Runner executes the configured linter in a directory.
type Runner struct {
	Executor tools.ToolExecutor
	Config   config.LintConfig
}

// NewRunner returns a Runner for cfg.
func NewRunner(exec tools.ToolExecutor, cfg config.LintConfig) *Runner {
	return &Runner{Executor: exec, Config: cfg}
}

// Run lints dir. Errors starting or running the linter are folded into a
// failed Result, never returned.
func (r *Runner) Run(ctx context.Context, dir string) Result {
	cmdline := r.Config.String()
	logger.Debug("running linter", logger.String("cmd", cmdline), logger.String("dir", dir))

	res, err := r.Executor.Execute(ctx, tools.ExecuteOptions{
		Tool:    r.Config.Command,
		Args:    r.Config.Args,
		WorkDir: dir,
		Timeout: r.Config.Timeout,
	})
	if err != nil {
		switch fault.KindOf(err) {
		case fault.KindMissingDependency:
			return Result{Message: fmt.Sprintf("linter %q not found", r.Config.Command)}
		case fault.KindTimeout:
			return Result{Message: fmt.Sprintf("%s timed out after %s", cmdline, r.Config.Timeout)}
		default:
			return Result{Message: fmt.Sprintf("%s failed: %v", cmdline, err)}
		}
	}
	if res.Success() {
		return Result{Passed: true, Message: "No lint issues found"}
	}

	out := strings.TrimSpace(string(res.Stdout) + "\n" + string(res.Stderr))
	msg := fmt.Sprintf("%s exited with status %d", cmdline, res.ExitCode)
	if out != "" {
		msg += "\n" + truncate(out, maxOutputLines)
	}
	return Result{Message: msg}
}

func truncate(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... %d more lines", len(lines)-n)
}
