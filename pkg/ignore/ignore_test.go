package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcherLayers(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("build/\n*.gen.go\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, IgnoreFileName), []byte("# comment\n\nthird_party/\n"), 0o644))

	m, err := NewMatcher(root)
	require.NoError(t, err)

	assert.True(t, m.IsIgnoredDir(filepath.Join(root, ".git")))
	assert.True(t, m.IsIgnoredDir(filepath.Join(root, "vendor")))
	assert.True(t, m.IsIgnoredDir(filepath.Join(root, "build")))
	assert.True(t, m.IsIgnoredDir(filepath.Join(root, "third_party")))
	assert.True(t, m.IsIgnored(filepath.Join(root, "pkg", "api.gen.go")))

	assert.False(t, m.IsIgnored(filepath.Join(root, "pkg", "api.go")))
	assert.False(t, m.IsIgnoredDir(filepath.Join(root, "pkg")))
	assert.False(t, m.IsIgnored(root))
}

func TestMatcherOutsideRoot(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root)
	require.NoError(t, err)

	assert.False(t, m.IsIgnored(filepath.Join(filepath.Dir(root), "vendor", "x.go")))
}

func TestMatcherWithNoIgnoreFiles(t *testing.T) {
	m, err := NewMatcher(t.TempDir())
	require.NoError(t, err)
	assert.False(t, m.IsIgnored("main.go"))
}

func TestReadIgnoreFileNotExists(t *testing.T) {
	_, err := readIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
	assert.Error(t, err)
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{".", []string{}},
		{"a/b/c.go", []string{"a", "b", "c.go"}},
		{"/a//b/./c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitPath(tt.in), tt.in)
	}
}
