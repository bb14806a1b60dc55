/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package tools

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrToolNotFound is wrapped by Execute when the executable cannot be located.
var ErrToolNotFound = errors.New("executable not found")

// ExecuteOptions configures tool execution
type ExecuteOptions struct {
	// Tool name (e.g., "git", "golangci-lint")
	Tool string

	// Args to pass to the tool
	Args []string

	// WorkDir is the working directory (defaults to current directory)
	WorkDir string

	// Stdin to pipe to the tool (optional)
	Stdin io.Reader

	// Env contains additional environment variables
	Env map[string]string

	// Timeout bounds the run; zero means only ctx applies.
	Timeout time.Duration
}

// ExecuteResult contains the output of tool execution
type ExecuteResult struct {
	// ExitCode from the tool
	ExitCode int

	// Stdout contains standard output
	Stdout []byte

	// Stderr contains standard error
	Stderr []byte

	// Path is the resolved executable
	Path string

	// Elapsed is the wall time of the run
	Elapsed time.Duration
}

// Success reports a zero exit status.
func (r *ExecuteResult) Success() bool { return r != nil && r.ExitCode == 0 }

// ToolExecutor executes external tools
type ToolExecutor interface {
	// Execute runs a tool. A non-zero exit is reported through ExitCode, not
	// as an error; errors are reserved for not-found, timeout and start failures.
	Execute(ctx context.Context, opts ExecuteOptions) (*ExecuteResult, error)

	// IsAvailable checks if this executor can run the specified tool
	IsAvailable(tool string) bool
}
