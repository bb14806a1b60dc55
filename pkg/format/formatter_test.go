package format

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fulmenhq/woodfmt/pkg/fault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const formatted = "package main\n\nvar x = 1\n"

func TestCheckDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": messyStyle, "b.go": formatted})
	files := []string{filepath.Join(root, "a.go"), filepath.Join(root, "b.go")}

	res := Check(files, Style())

	assert.Equal(t, []string{files[0]}, res.Changed())
	assert.Empty(t, res.Failed())
	assert.False(t, res.Clean())
	assert.Equal(t, messyStyle, readFile(t, files[0]))
}

func TestApplyWritesOnlyChanged(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": messyStyle, "b.go": formatted})
	a, b := filepath.Join(root, "a.go"), filepath.Join(root, "b.go")

	before, err := os.Stat(b)
	require.NoError(t, err)

	res := Apply([]string{a, b}, Style())

	assert.Equal(t, []string{a}, res.Changed())
	assert.NotEqual(t, messyStyle, readFile(t, a))
	assert.Equal(t, formatted, readFile(t, b))

	after, err := os.Stat(b)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "unchanged file must not be rewritten")
}

func TestCheckApplyConsistency(t *testing.T) {
	for _, tr := range []Transform{Imports(""), Style(), Pipeline("")} {
		t.Run(tr.Name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, map[string]string{
				"messy.go":   messyStyle,
				"imports.go": unsortedImports,
				"clean.go":   formatted,
			})
			files, err := filepath.Glob(filepath.Join(root, "*.go"))
			require.NoError(t, err)

			originals := map[string]string{}
			for _, f := range files {
				originals[f] = readFile(t, f)
			}

			wouldChange := Check(files, tr).Changed()
			applied := Apply(files, tr).Changed()
			assert.Equal(t, wouldChange, applied)

			for _, f := range files {
				if !contains(applied, f) {
					assert.Equal(t, originals[f], readFile(t, f), "%s must be byte-identical", f)
				}
			}

			assert.True(t, Check(files, tr).Clean(), "check after apply must report nothing pending")
		})
	}
}

func TestApplySkipsUnparsableAndContinues(t *testing.T) {
	root := t.TempDir()
	broken := "package main\nfunc {\n"
	writeTree(t, root, map[string]string{"a_broken.go": broken, "b.go": messyStyle})
	a, b := filepath.Join(root, "a_broken.go"), filepath.Join(root, "b.go")

	res := Apply([]string{a, b}, Style())

	require.Len(t, res.Failed(), 1)
	assert.Equal(t, a, res.Failed()[0].Path)
	assert.Equal(t, fault.KindParse, fault.KindOf(res.Failed()[0].Err))
	assert.Equal(t, broken, readFile(t, a), "no partial write for a failed file")
	assert.Equal(t, []string{b}, res.Changed())
}

func TestApplyMissingFileIsIOError(t *testing.T) {
	res := Apply([]string{filepath.Join(t.TempDir(), "gone.go")}, Style())
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, fault.KindIO, fault.KindOf(res.Failed()[0].Err))
}

func TestApplyWriteFailureLeavesOriginal(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs a non-root unix user for permission checks")
	}
	root := t.TempDir()
	writeTree(t, root, map[string]string{"ro/a.go": messyStyle})
	dir := filepath.Join(root, "ro")
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	o := ApplyFile(filepath.Join(dir, "a.go"), Style())
	require.Error(t, o.Err)
	assert.Equal(t, fault.KindIO, fault.KindOf(o.Err))
	assert.Equal(t, messyStyle, readFile(t, filepath.Join(dir, "a.go")))
}

func TestReportCheckListsFirstFive(t *testing.T) {
	var res Result
	for i := 0; i < 7; i++ {
		res.Outcomes = append(res.Outcomes, Outcome{Path: fmt.Sprintf("f%d.go", i), Changed: true})
	}
	var buf bytes.Buffer

	clean := ReportCheck(&buf, Style(), res)

	assert.False(t, clean)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Would reformat 7 files:", lines[0])
	assert.Equal(t, "  f0.go", lines[1])
	assert.Equal(t, "  f4.go", lines[5])
	assert.Equal(t, "  ... and 2 more", lines[6])
}

func TestReportCheckClean(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, ReportCheck(&buf, Imports(""), Result{}))
	assert.Equal(t, "All imports already sorted\n", buf.String())
}

func TestReportCheckCountsFailures(t *testing.T) {
	res := Result{Outcomes: []Outcome{{Path: "broken.go", Err: assert.AnError}, {Path: "ok.go"}}}
	var buf bytes.Buffer

	assert.True(t, ReportCheck(&buf, Imports(""), res))
	assert.Equal(t, "1 files could not be processed\n", buf.String())

	res.Outcomes = append(res.Outcomes, Outcome{Path: "messy.go", Changed: true})
	buf.Reset()
	assert.False(t, ReportCheck(&buf, Style(), res))
	assert.Equal(t, "Would reformat 1 files:\n  messy.go\n1 files could not be processed\n", buf.String())
}

func TestReportApply(t *testing.T) {
	var buf bytes.Buffer
	ReportApply(&buf, Style(), Result{Outcomes: []Outcome{{Path: "a.go", Changed: true}, {Path: "b.go"}}})
	assert.Equal(t, "Reformatted 1 files\n", buf.String())

	buf.Reset()
	ReportApply(&buf, Imports(""), Result{Outcomes: []Outcome{{Path: "b.go"}}})
	assert.Equal(t, "No files needed import sorting\n", buf.String())
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
