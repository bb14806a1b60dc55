// Package doctor reports whether the tools the formatting pipeline relies on are usable.
package doctor

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/format"
	"github.com/fulmenhq/woodfmt/pkg/logger"
	"github.com/fulmenhq/woodfmt/pkg/tools"
	"github.com/mattn/go-runewidth"
)

// DefaultTimeout bounds a single subprocess probe.
const DefaultTimeout = 10 * time.Second

// Strategy is how a tool is probed.
type Strategy int

const (
	// StrategyLibrary exercises an in-process library on a sample input.
	StrategyLibrary Strategy = iota
	// StrategySubprocess runs the tool's version command.
	StrategySubprocess
)

func (s Strategy) String() string {
	if s == StrategyLibrary {
		return "library"
	}
	return "subprocess"
}

// Reason classifies why a tool is unavailable.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonLibraryUnavailable
	ReasonNotFound
	ReasonTimeout
	ReasonNonZeroExit
	ReasonUnexpected
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonLibraryUnavailable:
		return "library not loadable"
	case ReasonNotFound:
		return "executable not found"
	case ReasonTimeout:
		return "timed out"
	case ReasonNonZeroExit:
		return "exited non-zero"
	default:
		return "unexpected failure"
	}
}

// Tool represents a capability doctor can check
type Tool struct {
	Name        string
	Strategy    Strategy
	Binary      string   // subprocess only
	VersionArgs []string // subprocess only
	// Probe runs the library on a sample and returns a version description.
	Probe       func() (string, error)
	InstallHint string
}

// Status represents the result of a single tool check
type Status struct {
	Name      string
	Available bool
	Detail    string // version text when available, failure description otherwise
	Reason    Reason
}

// Report aggregates the statuses of one CheckAll run.
type Report struct {
	Statuses []Status
	Ready    bool
}

// Missing returns the statuses of unavailable tools.
func (r Report) Missing() []Status {
	var out []Status
	for _, s := range r.Statuses {
		if !s.Available {
			out = append(out, s)
		}
	}
	return out
}

const probeSample = "package probe\n\nimport (\n\t\"os\"\n\t\"fmt\"\n)\n\nvar _, _ = fmt.Sprint, os.Args\n"

// LibraryTools are the in-process transforms the pipeline cannot run without.
func LibraryTools() []Tool {
	return []Tool{
		{
			Name:     "gofmt",
			Strategy: StrategyLibrary,
			Probe: func() (string, error) {
				if _, err := format.Style().Fn("probe.go", []byte(probeSample)); err != nil {
					return "", err
				}
				return "go/format " + runtime.Version(), nil
			},
			InstallHint: "rebuild woodfmt with a Go toolchain: go install github.com/fulmenhq/woodfmt@latest",
		},
		{
			Name:     "goimports",
			Strategy: StrategyLibrary,
			Probe: func() (string, error) {
				out, err := format.Imports("").Fn("probe.go", []byte(probeSample))
				if err != nil {
					return "", err
				}
				if !strings.Contains(string(out), "\"fmt\"\n\t\"os\"") {
					return "", fmt.Errorf("imports were not sorted")
				}
				return "golang.org/x/tools/imports " + moduleVersion("golang.org/x/tools"), nil
			},
			InstallHint: "rebuild woodfmt with a Go toolchain: go install github.com/fulmenhq/woodfmt@latest",
		},
	}
}

// KnownFormatTools returns the fixed set of tools the format pipeline uses.
func KnownFormatTools() []Tool {
	return append(LibraryTools(),
		Tool{
			Name:        "go",
			Strategy:    StrategySubprocess,
			Binary:      "go",
			VersionArgs: []string{"version"},
			InstallHint: "Install Go toolchain: https://go.dev/dl/",
		},
		Tool{
			Name:        "golangci-lint",
			Strategy:    StrategySubprocess,
			Binary:      "golangci-lint",
			VersionArgs: []string{"--version"},
			InstallHint: "go install github.com/golangci/golangci-lint/v2/cmd/golangci-lint@latest",
		},
	)
}

// GetToolByName looks a tool up in KnownFormatTools, case-insensitively.
func GetToolByName(name string) (Tool, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, t := range KnownFormatTools() {
		if t.Name == n {
			return t, true
		}
	}
	return Tool{}, false
}

// Checker probes tools. The zero value is not usable; use NewChecker.
type Checker struct {
	Executor tools.ToolExecutor
	Timeout  time.Duration
}

// NewChecker returns a Checker running subprocess probes through exec.
// A non-positive timeout selects DefaultTimeout.
func NewChecker(exec tools.ToolExecutor, timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{Executor: exec, Timeout: timeout}
}

// CheckAll probes every tool in order. Ready is true only when all are available.
func (c *Checker) CheckAll(ctx context.Context, ts []Tool) Report {
	r := Report{Ready: true, Statuses: make([]Status, 0, len(ts))}
	for _, t := range ts {
		s := c.Check(ctx, t)
		if !s.Available {
			r.Ready = false
		}
		r.Statuses = append(r.Statuses, s)
	}
	return r
}

// Check probes a single tool.
func (c *Checker) Check(ctx context.Context, t Tool) Status {
	var s Status
	if t.Strategy == StrategyLibrary {
		s = checkLibrary(t)
	} else {
		s = c.checkSubprocess(ctx, t)
	}
	logger.Debug("tool probed", logger.String("tool", t.Name), logger.Bool("available", s.Available), logger.String("detail", s.Detail))
	return s
}

func checkLibrary(t Tool) (s Status) {
	s.Name = t.Name
	defer func() {
		if r := recover(); r != nil {
			s = Status{Name: t.Name, Reason: ReasonLibraryUnavailable, Detail: fmt.Sprintf("library not loadable: %v", r)}
		}
	}()
	if t.Probe == nil {
		return Status{Name: t.Name, Reason: ReasonLibraryUnavailable, Detail: "library not loadable: no probe"}
	}
	ver, err := t.Probe()
	if err != nil {
		return Status{Name: t.Name, Reason: ReasonLibraryUnavailable, Detail: "library not loadable: " + err.Error()}
	}
	return Status{Name: t.Name, Available: true, Detail: ver}
}

func (c *Checker) checkSubprocess(ctx context.Context, t Tool) Status {
	bin := t.Binary
	if bin == "" {
		bin = t.Name
	}
	res, err := c.Executor.Execute(ctx, tools.ExecuteOptions{Tool: bin, Args: t.VersionArgs, Timeout: c.Timeout})
	if err != nil {
		switch fault.KindOf(err) {
		case fault.KindMissingDependency:
			return Status{Name: t.Name, Reason: ReasonNotFound, Detail: "executable not found"}
		case fault.KindTimeout:
			return Status{Name: t.Name, Reason: ReasonTimeout, Detail: fmt.Sprintf("timed out after %s", c.Timeout)}
		default:
			return Status{Name: t.Name, Reason: ReasonUnexpected, Detail: "unexpected failure: " + err.Error()}
		}
	}
	if !res.Success() {
		detail := fmt.Sprintf("exited with status %d", res.ExitCode)
		if msg := firstLine(strings.TrimSpace(string(res.Stderr))); msg != "" {
			detail += ": " + msg
		}
		return Status{Name: t.Name, Reason: ReasonNonZeroExit, Detail: detail}
	}
	ver := strings.TrimSpace(string(res.Stdout))
	if ver == "" {
		ver = strings.TrimSpace(string(res.Stderr))
	}
	return Status{Name: t.Name, Available: true, Detail: sanitizeVersion(ver)}
}

// PrintReport writes one line per tool followed by the overall verdict.
// Details are aligned in a column after the tool names.
func PrintReport(w io.Writer, ts []Tool, r Report) {
	width := 0
	for _, s := range r.Statuses {
		width = max(width, runewidth.StringWidth(s.Name)+1)
	}
	for _, s := range r.Statuses {
		mark := "✅"
		if !s.Available {
			mark = "❌"
		}
		_, _ = fmt.Fprintf(w, "%s %s %s\n", mark, runewidth.FillRight(s.Name+":", width), s.Detail)
	}
	_, _ = fmt.Fprintln(w)
	if r.Ready {
		_, _ = fmt.Fprintln(w, "🎉 All formatting tools are ready!")
		_, _ = fmt.Fprintln(w, "Run 'woodfmt format' to format your code")
		return
	}
	_, _ = fmt.Fprintln(w, "⚠️  Some tools are missing")
	for _, s := range r.Missing() {
		if hint := installInstruction(ts, s.Name); hint != "" {
			_, _ = fmt.Fprintf(w, "  %s: %s\n", s.Name, hint)
		}
	}
}

func installInstruction(ts []Tool, name string) string {
	for _, t := range ts {
		if t.Name == name {
			return t.InstallHint
		}
	}
	return ""
}

func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			return dep.Version
		}
	}
	return "(devel)"
}

func sanitizeVersion(s string) string {
	line := strings.TrimSpace(firstLine(s))
	line = strings.TrimPrefix(line, "version ")
	line = strings.TrimPrefix(line, "Version ")
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
