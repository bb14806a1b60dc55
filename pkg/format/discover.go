package format

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/ignore"
	"github.com/fulmenhq/woodfmt/pkg/logger"
)

// skipDirs are never descended into, even with gitignore handling off.
var skipDirs = map[string]bool{".git": true, "vendor": true, "node_modules": true}

// Discover returns every file under root with a configured source extension,
// in lexical order. Unreadable subdirectories are logged and skipped.
func Discover(root string, cfg config.FormatConfig) ([]string, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, fault.New(fault.KindPrecondition, "source directory", err)
	}
	if !st.IsDir() {
		return nil, fault.Newf(fault.KindPrecondition, "source directory", "%s is not a directory", root)
	}

	var matcher *ignore.Matcher
	if cfg.RespectGitignore {
		matcher, err = ignore.NewMatcher(root)
		if err != nil {
			logger.Warn("gitignore matching disabled", logger.Err(err))
			matcher = nil
		}
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Error("Skipping unreadable path", logger.String("path", path), logger.Err(err))
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if skipDirs[d.Name()] || (matcher != nil && matcher.IsIgnoredDir(path)) || excluded(root, path, cfg.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !cfg.HasExtension(path) {
			return nil
		}
		if matcher != nil && matcher.IsIgnored(path) {
			return nil
		}
		if excluded(root, path, cfg.Exclude) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fault.New(fault.KindIO, "walk "+root, walkErr)
	}
	return files, nil
}

// excluded matches the root-relative slash path against doublestar patterns.
func excluded(root, path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
