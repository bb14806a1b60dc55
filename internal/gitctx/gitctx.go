// Package gitctx is woodfmt's boundary to version control: which files are
// staged for commit, and how to stage them again after rewriting.
package gitctx

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=gitctx.go -destination=mocks/stager.gen.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/logger"
	"github.com/fulmenhq/woodfmt/pkg/tools"
	git "github.com/go-git/go-git/v5"
)

// Stager lists and stages files in the index.
type Stager interface {
	// StagedFiles returns added, copied and modified paths in the index
	// that live under the stager's root, relative to that root.
	StagedFiles(ctx context.Context) ([]string, error)
	// Add stages a path relative to the stager's root.
	Add(ctx context.Context, path string) error
}

// NewStager returns a CLIStager when git is installed and a GoGitStager otherwise.
func NewStager(root string, exec tools.ToolExecutor) Stager {
	if exec != nil && exec.IsAvailable("git") {
		return &CLIStager{Root: root, Executor: exec}
	}
	logger.Debug("git executable not found, using go-git", logger.String("root", root))
	return &GoGitStager{Root: root}
}

// CLIStager shells out to the git executable.
type CLIStager struct {
	Root     string
	Executor tools.ToolExecutor
}

func (s *CLIStager) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := s.git(ctx, "diff", "--cached", "--name-only", "--relative", "--diff-filter=ACM", "-z")
	if err != nil {
		return nil, err
	}
	return parseNameList(out), nil
}

func (s *CLIStager) Add(ctx context.Context, path string) error {
	_, err := s.git(ctx, "add", "--", filepath.ToSlash(path))
	return err
}

func (s *CLIStager) git(ctx context.Context, args ...string) ([]byte, error) {
	res, err := s.Executor.Execute(ctx, tools.ExecuteOptions{Tool: "git", Args: args, WorkDir: s.Root})
	if err != nil {
		return nil, err
	}
	if !res.Success() {
		return nil, fault.Newf(fault.KindPrecondition, "git "+args[0],
			"exit status %d: %s", res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return res.Stdout, nil
}

// parseNameList splits NUL-terminated (-z) or newline-separated path output.
func parseNameList(data []byte) []string {
	sep := []byte{0}
	if !bytes.Contains(data, sep) {
		sep = []byte{'\n'}
	}
	var files []string
	for _, p := range bytes.Split(data, sep) {
		if s := strings.TrimRight(string(p), "\r\n"); s != "" {
			files = append(files, s)
		}
	}
	return files
}

// GoGitStager reads and updates the index with go-git.
type GoGitStager struct {
	Root string
}

// worktree opens the repository containing Root and returns the slash
// separated prefix of Root inside the worktree ("" at the top level).
func (s *GoGitStager) worktree() (*git.Worktree, string, error) {
	repo, err := git.PlainOpenWithOptions(s.Root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", fault.New(fault.KindPrecondition, "open repository", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", fault.New(fault.KindPrecondition, "open worktree", err)
	}
	rel, err := filepath.Rel(resolvePath(wt.Filesystem.Root()), resolvePath(s.Root))
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, "", fault.Newf(fault.KindPrecondition, "open worktree", "%s is outside the worktree", s.Root)
	}
	if rel == "." {
		return wt, "", nil
	}
	return wt, filepath.ToSlash(rel) + "/", nil
}

func resolvePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return p
}

func (s *GoGitStager) StagedFiles(_ context.Context) ([]string, error) {
	wt, prefix, err := s.worktree()
	if err != nil {
		return nil, err
	}
	st, err := wt.Status()
	if err != nil {
		return nil, fault.New(fault.KindIO, "worktree status", err)
	}
	var files []string
	for path, fs := range st {
		switch fs.Staging {
		case git.Added, git.Copied, git.Modified:
			p := filepath.ToSlash(path)
			if strings.HasPrefix(p, prefix) {
				files = append(files, strings.TrimPrefix(p, prefix))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s *GoGitStager) Add(_ context.Context, path string) error {
	wt, prefix, err := s.worktree()
	if err != nil {
		return err
	}
	if _, err := wt.Add(prefix + filepath.ToSlash(path)); err != nil {
		return fault.New(fault.KindIO, fmt.Sprintf("stage %s", path), err)
	}
	return nil
}
