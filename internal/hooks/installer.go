package hooks

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/logger"
)

// ErrNoRepository is returned when the root has no .git directory.
var ErrNoRepository = errors.New("no git repository found")

// Installer writes the pre-commit trigger into a repository.
type Installer struct {
	Root       string
	Executable string // absolute path of the woodfmt binary the hook calls
	Version    string
}

// HookPath returns where the trigger script is written.
func (i *Installer) HookPath() string {
	return filepath.Join(i.Root, ".git", "hooks", config.HookSlot)
}

// Install writes the trigger script, replacing any existing pre-commit hook,
// and adds the owner-executable bit.
func (i *Installer) Install() (string, error) {
	gitDir := filepath.Join(i.Root, ".git")
	if _, err := os.Stat(gitDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fault.New(fault.KindPrecondition, "install hook", ErrNoRepository)
		}
		return "", fault.New(fault.KindIO, "stat "+gitDir, err)
	}

	exe := i.Executable
	if !filepath.IsAbs(exe) {
		abs, err := filepath.Abs(exe)
		if err != nil {
			return "", fault.New(fault.KindIO, "resolve executable", err)
		}
		exe = abs
	}
	root, err := filepath.Abs(i.Root)
	if err != nil {
		return "", fault.New(fault.KindIO, "resolve root", err)
	}

	script, err := RenderScript(ScriptData{Executable: exe, Root: root, Version: i.Version})
	if err != nil {
		return "", fault.New(fault.KindUnexpected, "render hook script", err)
	}

	hooksDir := filepath.Join(gitDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", fault.New(fault.KindIO, "create "+hooksDir, err)
	}

	path := i.HookPath()
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil { // #nosec G306 -- made executable below
		return "", fault.New(fault.KindIO, "write "+path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return "", fault.New(fault.KindIO, "stat "+path, err)
	}
	if err := os.Chmod(path, st.Mode().Perm()|0o100); err != nil {
		return "", fault.New(fault.KindIO, fmt.Sprintf("chmod %s", path), err)
	}

	logger.Debug("hook installed", logger.String("path", path), logger.String("executable", exe))
	return path, nil
}
