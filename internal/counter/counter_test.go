package counter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countlines/internal/languages"
	"countlines/internal/model"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录中快速生成测试文件。
func writeFixtureFile(t *testing.T, dir string, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func newTestCounter(t *testing.T, root string, opts ...Option) *Counter {
	t.Helper()

	registry, err := languages.NewRegistry()
	require.NoError(t, err)
	return New(registry, append([]Option{WithRoot(root)}, opts...)...)
}

func TestCountGoFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtureFile(t, dir, "pkg/main.go", []byte("package main\n\n// entry\nfunc main() {}\n"))

	tally, ok := newTestCounter(t, dir).Count(path)
	require.True(t, ok)
	assert.Equal(t, "pkg/main.go", tally.Path)
	assert.Equal(t, "Go", tally.Language)
	assert.True(t, tally.Success)
	assert.Equal(t, model.FaultNone, tally.Fault)
	assert.Equal(t, model.LineCounts{Code: 2, Comment: 1, Blank: 1}, tally.Lines)
}

func TestCountEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtureFile(t, dir, "empty.py", nil)

	tally, ok := newTestCounter(t, dir).Count(path)
	require.True(t, ok)
	assert.True(t, tally.Success)
	assert.Zero(t, tally.Lines.Lines())
}

func TestCountUnrecognizedFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtureFile(t, dir, "README.txt", []byte("hello\n"))

	_, ok := newTestCounter(t, dir).Count(path)
	assert.False(t, ok)
}

func TestCountInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := writeFixtureFile(t, dir, "bad.rs", []byte("fn main() {}\n// ok\n\xc3\x28 broken\n}\n"))

	tally, ok := newTestCounter(t, dir).Count(path)
	require.True(t, ok)
	assert.False(t, tally.Success)
	assert.Equal(t, model.FaultDecode, tally.Fault)
	assert.Equal(t, "invalid text at line 3", tally.Error)
	assert.Equal(t, model.LineCounts{Code: 1, Comment: 1, Invalid: 2}, tally.Lines)
}

func TestCountUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	// 目录同名 .go，ReadFile 必然失败，且不依赖文件权限。
	path := filepath.Join(dir, "broken.go")
	require.NoError(t, os.Mkdir(path, 0o755))

	tally, ok := newTestCounter(t, dir).Count(path)
	require.True(t, ok)
	assert.False(t, tally.Success)
	assert.Equal(t, model.FaultIO, tally.Fault)
	assert.NotEmpty(t, tally.Error)
	assert.Zero(t, tally.Lines.Lines())
}

func TestCountByteOrderMarks(t *testing.T) {
	dir := t.TempDir()

	utf8BOM := writeFixtureFile(t, dir, "bom.go", []byte("\xef\xbb\xbf// header\npackage main\n"))
	tally, ok := newTestCounter(t, dir).Count(utf8BOM)
	require.True(t, ok)
	assert.True(t, tally.Success)
	assert.Equal(t, model.LineCounts{Code: 1, Comment: 1}, tally.Lines)

	// "// x\nx\n" 的 UTF-16LE 编码，带 BOM。
	utf16 := []byte{0xff, 0xfe}
	for _, r := range "// x\nx\n" {
		utf16 = append(utf16, byte(r), 0x00)
	}
	utf16Path := writeFixtureFile(t, dir, "wide.go", utf16)
	tally, ok = newTestCounter(t, dir).Count(utf16Path)
	require.True(t, ok)
	assert.True(t, tally.Success)
	assert.Equal(t, model.LineCounts{Code: 1, Comment: 1}, tally.Lines)
}

func TestCountWithDeclaredEncoding(t *testing.T) {
	dir := t.TempDir()
	// 0xE9 在 windows-1252 中是 é，但不是合法 UTF-8。
	path := writeFixtureFile(t, dir, "legacy.py", []byte("name = \"caf\xe9\"\n# r\xe9sum\xe9\n"))

	strict, ok := newTestCounter(t, dir).Count(path)
	require.True(t, ok)
	assert.Equal(t, model.FaultDecode, strict.Fault)
	assert.Equal(t, int64(2), strict.Lines.Invalid)

	decoder, err := NewDecoder("windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", decoder.Name())

	tally, ok := newTestCounter(t, dir, WithDecoder(decoder)).Count(path)
	require.True(t, ok)
	assert.True(t, tally.Success)
	assert.Equal(t, model.LineCounts{Code: 1, Comment: 1}, tally.Lines)
}

func TestNewDecoder(t *testing.T) {
	decoder, err := NewDecoder("")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", decoder.Name())

	decoder, err = NewDecoder("UTF8")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", decoder.Name())

	// 显式声明 UTF-8 时仍然保持严格校验，非法字节不会被悄悄替换。
	decoded, err := decoder.Decode([]byte("a\xffb"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a\xffb"), decoded)

	decoder, err = NewDecoder("latin1")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", decoder.Name())

	_, err = NewDecoder("klingon")
	assert.Error(t, err)
}

func TestDisplayPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.go")

	assert.Equal(t, "single.go", newTestCounter(t, path).displayPath(path))
	assert.Equal(t, "single.go", newTestCounter(t, dir).displayPath(path))
	assert.Equal(t, filepath.ToSlash(path), New(nil).displayPath(path))
}
