/*
Copyright © 2025 3 Leaps <info@3leaps.com>
*/
package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/logger"
)

// waitDelay bounds how long Wait blocks on inherited pipes after a kill.
const waitDelay = 500 * time.Millisecond

// LocalExecutor runs tools installed on the local system
type LocalExecutor struct {
	shimDirs []string
}

// NewLocalExecutor creates a new LocalExecutor
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{
		shimDirs: getShimDirectories(),
	}
}

// IsAvailable checks if the tool is available locally
func (e *LocalExecutor) IsAvailable(tool string) bool {
	return e.FindToolPath(tool) != ""
}

// Execute runs the tool locally
func (e *LocalExecutor) Execute(ctx context.Context, opts ExecuteOptions) (*ExecuteResult, error) {
	op := strings.TrimSpace(opts.Tool + " " + strings.Join(opts.Args, " "))

	toolPath := e.FindToolPath(opts.Tool)
	if toolPath == "" {
		return nil, fault.New(fault.KindMissingDependency, op,
			fmt.Errorf("%w: %s not found in PATH or Go bin directories", ErrToolNotFound, opts.Tool))
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// #nosec G204 - toolPath is validated via FindToolPath
	cmd := exec.CommandContext(ctx, toolPath, opts.Args...)
	cmd.WaitDelay = waitDelay

	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	if len(opts.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range opts.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	result := &ExecuteResult{
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Path:    toolPath,
		Elapsed: time.Since(start),
	}
	logger.Debug("tool finished", logger.String("cmd", op), logger.Duration("elapsed", result.Elapsed))

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fault.New(fault.KindTimeout, op, fmt.Errorf("timed out after %s: %w", opts.Timeout, context.DeadlineExceeded))
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, fault.New(fault.KindUnexpected, op, ctx.Err())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fault.New(fault.KindMissingDependency, op, fmt.Errorf("%w: %v", ErrToolNotFound, err))
		}
		return nil, fault.New(fault.KindUnexpected, op, err)
	}

	return result, nil
}

// FindToolPath finds a tool by name, checking PATH first then the Go bin directories.
// A name containing a path separator is used as-is when it exists.
func (e *LocalExecutor) FindToolPath(toolName string) string {
	if strings.ContainsRune(toolName, os.PathSeparator) {
		if _, err := os.Stat(toolName); err == nil {
			return toolName
		}
		return ""
	}

	if path, err := exec.LookPath(toolName); err == nil {
		return path
	}

	for _, shimDir := range e.shimDirs {
		if shimDir == "" {
			continue
		}
		candidate := filepath.Join(shimDir, toolName)
		if runtime.GOOS == "windows" && !strings.HasSuffix(candidate, ".exe") {
			candidate += ".exe"
		}
		if _, err := os.Stat(candidate); err == nil {
			logger.Debug(fmt.Sprintf("found %s in %s", toolName, shimDir))
			return candidate
		}
	}

	return ""
}

// getShimDirectories returns the directories `go install` writes binaries to.
func getShimDirectories() []string {
	var dirs []string
	if goBin := os.Getenv("GOBIN"); goBin != "" {
		dirs = append(dirs, goBin)
	}
	if goPath := os.Getenv("GOPATH"); goPath != "" {
		for _, p := range filepath.SplitList(goPath) {
			dirs = append(dirs, filepath.Join(p, "bin"))
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, "go", "bin"))
	}
	return dirs
}
