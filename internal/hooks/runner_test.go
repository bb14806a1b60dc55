package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/woodfmt/internal/doctor"
	"github.com/fulmenhq/woodfmt/internal/gitctx/mocks"
	"github.com/fulmenhq/woodfmt/pkg/config"
	"github.com/fulmenhq/woodfmt/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	messy = "package main\nvar x=1\n"
	clean = "package main\n\nvar x = 1\n"
)

type staticChecker struct{ ready bool }

func (c staticChecker) CheckAll(_ context.Context, ts []doctor.Tool) doctor.Report {
	r := doctor.Report{Ready: c.ready}
	for _, t := range ts {
		r.Statuses = append(r.Statuses, doctor.Status{Name: t.Name, Available: c.ready, Detail: "probe"})
	}
	return r
}

func newRunner(t *testing.T, root string, stager *mocks.MockStager, ready bool) (*Runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Runner{
		Root:      root,
		Stager:    stager,
		Checker:   staticChecker{ready: ready},
		Format:    config.Default().Format,
		Transform: format.Pipeline(""),
		Out:       &out,
	}, &out
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func read(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func TestRunToolsUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)

	r, out := newRunner(t, t.TempDir(), stager, false)

	assert.False(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "Formatting tools not available")
}

func TestRunStagedQueryFailureIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)
	stager.EXPECT().StagedFiles(gomock.Any()).Return(nil, errors.New("not a git repository"))

	r, _ := newRunner(t, t.TempDir(), stager, true)
	assert.True(t, r.Run(context.Background()))
}

func TestRunNoEligibleFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)
	stager.EXPECT().StagedFiles(gomock.Any()).Return([]string{"README.md", "docs/notes.txt"}, nil)

	r, out := newRunner(t, t.TempDir(), stager, true)
	assert.True(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "No staged source files")
}

func TestRunFormatsAndRestages(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.go": messy, "pkg/b.go": clean, "README.md": "# x\n"})

	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)
	gomock.InOrder(
		stager.EXPECT().StagedFiles(gomock.Any()).Return([]string{"README.md", "a.go", "pkg/b.go"}, nil),
		stager.EXPECT().Add(gomock.Any(), "a.go").Return(nil),
		stager.EXPECT().Add(gomock.Any(), "pkg/b.go").Return(nil),
	)

	r, out := newRunner(t, root, stager, true)
	require.True(t, r.Run(context.Background()))

	assert.Equal(t, clean, read(t, filepath.Join(root, "a.go")))
	assert.Equal(t, clean, read(t, filepath.Join(root, "pkg", "b.go")))
	assert.Contains(t, out.String(), "formatted a.go")
	assert.NotContains(t, out.String(), "formatted pkg/b.go")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	root := t.TempDir()
	broken := "package main\nfunc {\n"
	writeFiles(t, root, map[string]string{"a.go": messy, "b.go": broken, "c.go": messy})

	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)
	stager.EXPECT().StagedFiles(gomock.Any()).Return([]string{"a.go", "b.go", "c.go"}, nil)
	stager.EXPECT().Add(gomock.Any(), "a.go").Return(nil)

	r, out := newRunner(t, root, stager, true)
	assert.False(t, r.Run(context.Background()))

	assert.Equal(t, clean, read(t, filepath.Join(root, "a.go")))
	assert.Equal(t, broken, read(t, filepath.Join(root, "b.go")))
	assert.Equal(t, messy, read(t, filepath.Join(root, "c.go")), "files after the failure are not processed")
	assert.Contains(t, out.String(), "Failed to format b.go")
}

func TestRunStageFailureStops(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.go": messy, "b.go": messy})

	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)
	stager.EXPECT().StagedFiles(gomock.Any()).Return([]string{"a.go", "b.go"}, nil)
	stager.EXPECT().Add(gomock.Any(), "a.go").Return(errors.New("index.lock exists"))

	r, out := newRunner(t, root, stager, true)
	assert.False(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "Failed to stage a.go")
	assert.Equal(t, messy, read(t, filepath.Join(root, "b.go")))
}

func TestRunSkipsFilesMissingOnDisk(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"b.go": messy})

	ctrl := gomock.NewController(t)
	stager := mocks.NewMockStager(ctrl)
	stager.EXPECT().StagedFiles(gomock.Any()).Return([]string{"deleted.go", "b.go"}, nil)
	stager.EXPECT().Add(gomock.Any(), "b.go").Return(nil)

	r, _ := newRunner(t, root, stager, true)
	assert.True(t, r.Run(context.Background()))
	assert.Equal(t, clean, read(t, filepath.Join(root, "b.go")))
}
