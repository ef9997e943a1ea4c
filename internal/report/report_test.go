package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"countlines/internal/model"
)

func sampleReport() model.Report {
	return model.Report{
		ScannedPath: "/work/project",
		Languages: []model.LanguageTally{
			{Language: "Go", Files: 3, LineCounts: model.LineCounts{Code: 12345, Comment: 20, Blank: 7}},
			{Language: "Rust", Files: 1, LineCounts: model.LineCounts{Code: 3, Invalid: 2}},
		},
		Total:             model.LanguageTally{Language: "Total", Files: 4, LineCounts: model.LineCounts{Code: 12348, Comment: 20, Blank: 7, Invalid: 2}},
		ErrorFiles:        1,
		UnrecognizedFiles: 2,
		Errors:            []model.FileError{{Path: "src/bad.rs", Fault: model.FaultDecode, Error: "invalid text at line 2"}},
		Elapsed:           1500 * time.Millisecond,
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"":       FormatTable,
		"table":  FormatTable,
		" JSON ": FormatJSON,
		"yaml":   FormatYAML,
		"kv":     FormatKV,
	} {
		got, err := ParseFormat(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrintTable(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintTable(&buffer, sampleReport()))

	output := buffer.String()
	assert.Contains(t, output, "Go")
	assert.Contains(t, output, "12,345")
	assert.Contains(t, output, "Total")
	assert.Contains(t, output, "error: src/bad.rs: invalid text at line 2")
	assert.Contains(t, output, "1 files errored, 2 files unrecognized")
	assert.Contains(t, output, "results in 1.5s")
	assert.Less(t, strings.Index(output, "Go"), strings.Index(output, "Rust"))
	assert.Less(t, strings.Index(output, "Rust"), strings.Index(output, "Total"))
}

func TestPrintTableWithFiles(t *testing.T) {
	result := sampleReport()
	result.Files = []model.FileTally{{Path: "cmd/main.go", Language: "Go", Lines: model.LineCounts{Code: 10}, Success: true}}

	var buffer bytes.Buffer
	require.NoError(t, PrintTable(&buffer, result))
	assert.Contains(t, buffer.String(), "cmd/main.go")
}

func TestPrintJSON(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintJSON(&buffer, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, "/work/project", decoded["scanned_path"])
	assert.EqualValues(t, 1500*time.Millisecond, decoded["elapsed_ns"])

	total := decoded["total"].(map[string]any)
	assert.EqualValues(t, 12348, total["code"])
	assert.EqualValues(t, 2, total["invalid"])
	assert.NotContains(t, decoded, "files")
	assert.True(t, strings.HasSuffix(buffer.String(), "}\n"))
}

func TestPrintYAML(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintYAML(&buffer, sampleReport()))

	var decoded struct {
		ScannedPath string `yaml:"scanned_path"`
		Languages   []struct {
			Language string `yaml:"language"`
			Files    int64  `yaml:"files"`
			Code     int64  `yaml:"code"`
		} `yaml:"languages"`
		ErrorFiles int64 `yaml:"error_files"`
	}
	require.NoError(t, yaml.Unmarshal(buffer.Bytes(), &decoded))
	assert.Equal(t, "/work/project", decoded.ScannedPath)
	require.Len(t, decoded.Languages, 2)
	assert.Equal(t, int64(12345), decoded.Languages[0].Code)
	assert.Equal(t, int64(1), decoded.ErrorFiles)
}

func TestPrintKeyValue(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, PrintKeyValue(&buffer, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	assert.Equal(t, "scanned_path=/work/project", lines[0])
	assert.Contains(t, lines, "language.Go.files=3")
	assert.Contains(t, lines, "language.Go.code=12345")
	assert.Contains(t, lines, "language.Rust.invalid=2")
	assert.Contains(t, lines, "total.code=12348")
	assert.Contains(t, lines, "error_files=1")
	assert.Contains(t, lines, "unrecognized_files=2")
	assert.Equal(t, "elapsed_seconds=1.500000", lines[len(lines)-1])
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "report.json")

	// table 格式导出时落地为 JSON。
	require.NoError(t, WriteFile(path, FormatTable, sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded model.Report
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, sampleReport(), decoded)

	kvPath := filepath.Join(dir, "report.txt")
	require.NoError(t, WriteFile(kvPath, FormatKV, sampleReport()))
	content, err = os.ReadFile(kvPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "total.files=4")
}

func TestWriteUnknownFormat(t *testing.T) {
	var buffer bytes.Buffer
	assert.Error(t, Write(&buffer, Format("csv"), sampleReport()))
}
