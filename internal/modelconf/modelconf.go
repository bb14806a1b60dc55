// Package modelconf resolves where the trained model artifacts live.
//
// A Store is created once per process and handed to whatever needs the paths;
// there is no package-level state.
package modelconf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/fulmenhq/woodfmt/pkg/logger"
)

const (
	// DefaultDirName is used under the working directory when no directory is given.
	DefaultDirName = "conf"

	// ModelFile is the primary model artifact.
	ModelFile = "aircon_model.pkl"

	// AlternateModelFile is the alternate model artifact.
	AlternateModelFile = "rf_model.onnx"
)

// ErrUninitialized is returned by path accessors before Initialize has succeeded.
var ErrUninitialized = errors.New("configuration directory not initialized")

// Store holds the configured model directory.
type Store struct {
	// Out receives the "Using configuration directory" line. Nil discards it.
	Out io.Writer

	dir string
}

// New returns an uninitialized Store reporting to out.
func New(out io.Writer) *Store {
	return &Store{Out: out}
}

// Initialize records dir and creates it along with any missing parents.
// An empty dir resolves to <cwd>/conf. Calling it again replaces the stored
// directory; the previous value is not consulted.
func (s *Store) Initialize(dir string) error {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fault.New(fault.KindIO, "working directory", err)
		}
		dir = filepath.Join(cwd, DefaultDirName)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fault.New(fault.KindIO, "create "+dir, err)
	}
	s.dir = dir

	logger.Debug("configuration directory set", logger.String("dir", dir))
	if s.Out != nil {
		_, _ = fmt.Fprintf(s.Out, "Using configuration directory: %s\n", dir)
	}
	return nil
}

// Dir returns the configured directory.
func (s *Store) Dir() (string, error) {
	if s == nil || s.dir == "" {
		return "", ErrUninitialized
	}
	return s.dir, nil
}

// ModelPath returns <dir>/aircon_model.pkl.
func (s *Store) ModelPath() (string, error) {
	return s.join(ModelFile)
}

// AlternateModelPath returns <dir>/rf_model.onnx.
func (s *Store) AlternateModelPath() (string, error) {
	return s.join(AlternateModelFile)
}

func (s *Store) join(name string) (string, error) {
	dir, err := s.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
