// Package safeio holds the file write helpers used when rewriting sources in place.
package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, part := range strings.Split(filepath.ToSlash(c), "/") {
		if part == ".." {
			return "", errors.New("path traversal detected")
		}
	}
	return filepath.ToSlash(c), nil
}

// WriteFilePreservePerms atomically replaces path with data, keeping the existing
// file mode when there is one (0644 otherwise). The data goes to a temp file in
// the same directory which is renamed over path, so a failed write leaves the
// original untouched.
func WriteFilePreservePerms(path string, data []byte) (err error) {
	var mode os.FileMode = 0o644
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
		if mode == 0 {
			mode = 0o644
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".woodfmt-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, mode); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
