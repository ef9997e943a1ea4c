package walker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTree 在临时目录中生成一棵固定的目录树。
func buildTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := []string{
		"main.go",
		"README.md",
		".hidden.go",
		".git/config.go",
		"pkg/util.go",
		"pkg/util_test.go",
		"pkg/deep/inner.go",
		"vendor/lib/lib.go",
	}
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("package x\n"), 0o644))
	}
	return root
}

// collect 遍历并返回相对根目录的排序路径。
func collect(t *testing.T, root string, options Options) []string {
	t.Helper()

	w, err := New(root, options)
	require.NoError(t, err)

	paths, err := w.Walk(context.Background())
	require.NoError(t, err)

	var result []string
	for path := range paths {
		relative, err := filepath.Rel(w.Root(), path)
		require.NoError(t, err)
		result = append(result, filepath.ToSlash(relative))
	}
	sort.Strings(result)
	return result
}

func TestWalkAllFiles(t *testing.T) {
	root := buildTree(t)

	got := collect(t, root, Options{})
	assert.Equal(t, []string{
		".git/config.go",
		".hidden.go",
		"README.md",
		"main.go",
		"pkg/deep/inner.go",
		"pkg/util.go",
		"pkg/util_test.go",
		"vendor/lib/lib.go",
	}, got)
}

func TestWalkIgnoreHidden(t *testing.T) {
	root := buildTree(t)

	got := collect(t, root, Options{IgnoreHidden: true})
	assert.NotContains(t, got, ".hidden.go")
	assert.NotContains(t, got, ".git/config.go")
	assert.Contains(t, got, "main.go")
}

func TestWalkExclude(t *testing.T) {
	root := buildTree(t)

	got := collect(t, root, Options{Exclude: []string{"vendor", "**/*_test.go", ".git"}})
	assert.Equal(t, []string{
		".hidden.go",
		"README.md",
		"main.go",
		"pkg/deep/inner.go",
		"pkg/util.go",
	}, got)

	// 绝对路径模式匹配绝对路径。
	absolute := filepath.ToSlash(filepath.Join(root, "pkg")) + "/**"
	got = collect(t, root, Options{Exclude: []string{absolute}})
	assert.NotContains(t, got, "pkg/util.go")
	assert.Contains(t, got, "main.go")
}

func TestWalkInvalidExcludePattern(t *testing.T) {
	_, err := New(t.TempDir(), Options{Exclude: []string{"["}})
	assert.Error(t, err)
}

func TestWalkMaxDepth(t *testing.T) {
	root := buildTree(t)

	got := collect(t, root, Options{MaxDepth: 1, IgnoreHidden: true})
	assert.Equal(t, []string{"README.md", "main.go"}, got)

	got = collect(t, root, Options{MaxDepth: 2, IgnoreHidden: true})
	assert.Equal(t, []string{"README.md", "main.go", "pkg/util.go", "pkg/util_test.go"}, got)
}

func TestWalkSingleFile(t *testing.T) {
	root := buildTree(t)
	target := filepath.Join(root, "main.go")

	w, err := New(target, Options{Exclude: []string{"**"}})
	require.NoError(t, err)
	paths, err := w.Walk(context.Background())
	require.NoError(t, err)

	var got []string
	for path := range paths {
		got = append(got, path)
	}
	assert.Equal(t, []string{w.Root()}, got)
}

func TestWalkMissingRoot(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"), Options{})
	require.NoError(t, err)

	_, err = w.Walk(context.Background())
	assert.Error(t, err)
}

func TestWalkSymlinks(t *testing.T) {
	root := buildTree(t)
	if err := os.Symlink(root, filepath.Join(root, "pkg", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "main.go"), filepath.Join(root, "alias.go")))

	got := collect(t, root, Options{IgnoreHidden: true})
	assert.NotContains(t, got, "alias.go")
	assert.Len(t, got, 6)

	// 跟随链接时，指向根目录的环路只会被访问一次。
	got = collect(t, root, Options{IgnoreHidden: true, FollowLinks: true})
	assert.Contains(t, got, "alias.go")
	assert.Len(t, got, 7)
}

func TestWalkUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}

	root := buildTree(t)
	locked := filepath.Join(root, "pkg", "deep")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	w, err := New(root, Options{})
	require.NoError(t, err)
	paths, err := w.Walk(context.Background())
	require.NoError(t, err)
	for range paths {
	}

	failures := w.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "pkg/deep", failures[0].Path)
}

func TestWalkStopsWhenCanceled(t *testing.T) {
	root := buildTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w, err := New(root, Options{})
	require.NoError(t, err)
	paths, err := w.Walk(ctx)
	require.NoError(t, err)

	count := 0
	for range paths {
		count++
	}
	assert.Zero(t, count)
}

func TestWalkBufferSize(t *testing.T) {
	root := buildTree(t)

	for _, tt := range []struct {
		buffer int
		want   int
	}{
		{buffer: 0, want: 64},
		{buffer: 3, want: 3},
	} {
		w, err := New(root, Options{Buffer: tt.buffer})
		require.NoError(t, err)
		paths, err := w.Walk(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tt.want, cap(paths))
		for range paths {
		}
	}
}
