// Package report 提供 countlines 的输出能力。
// 当前实现支持 table 控制台格式、JSON、YAML 与 key=value 机器可读格式（含文件导出）。
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"countlines/internal/model"
)

// Format 是输出格式标识。
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatKV    Format = "kv"
)

// ParseFormat 校验输出格式。
func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(name))); format {
	case FormatTable, FormatJSON, FormatYAML, FormatKV:
		return format, nil
	case "":
		return FormatTable, nil
	default:
		return "", errors.New("unsupported format, allowed values: table, json, yaml, kv")
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	totalStyle  = numberStyle.Bold(true)
)

// Write 按格式输出报告。
func Write(writer io.Writer, format Format, result model.Report) error {
	switch format {
	case FormatTable:
		return PrintTable(writer, result)
	case FormatJSON:
		return PrintJSON(writer, result)
	case FormatYAML:
		return PrintYAML(writer, result)
	case FormatKV:
		return PrintKeyValue(writer, result)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// PrintTable 使用表格展示扫描结果。
// 语言按 code 降序排列，最后一行是 Total。
func PrintTable(writer io.Writer, result model.Report) error {
	rows := make([][]string, 0, len(result.Languages)+1)
	for _, item := range result.Languages {
		rows = append(rows, tallyRow(item))
	}
	rows = append(rows, tallyRow(result.Total))
	totalRow := len(rows) - 1

	languageTable := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("", "files", "code", "comment", "blank", "invalid").
		Rows(rows...).
		StyleFunc(func(row int, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return nameStyle
			case row == totalRow:
				return totalStyle
			default:
				return numberStyle
			}
		})

	if _, err := fmt.Fprintln(writer, languageTable.Render()); err != nil {
		return err
	}

	if len(result.Files) > 0 {
		fileRows := make([][]string, 0, len(result.Files))
		for _, item := range result.Files {
			fileRows = append(fileRows, []string{
				item.Path,
				item.Language,
				humanize.Comma(item.Lines.Code),
				humanize.Comma(item.Lines.Comment),
				humanize.Comma(item.Lines.Blank),
				humanize.Comma(item.Lines.Invalid),
			})
		}
		fileTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("file", "language", "code", "comment", "blank", "invalid").
			Rows(fileRows...).
			StyleFunc(func(row int, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col < 2:
					return nameStyle
				default:
					return numberStyle
				}
			})
		if _, err := fmt.Fprintln(writer, fileTable.Render()); err != nil {
			return err
		}
	}

	for _, item := range result.Errors {
		if _, err := fmt.Fprintf(writer, "error: %s: %s\n", item.Path, item.Error); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "%s files errored, %s files unrecognized\n",
		humanize.Comma(result.ErrorFiles), humanize.Comma(result.UnrecognizedFiles)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(writer, "results in %s\n", result.Elapsed)
	return err
}

func tallyRow(item model.LanguageTally) []string {
	return []string{
		item.Language,
		humanize.Comma(item.Files),
		humanize.Comma(item.Code),
		humanize.Comma(item.Comment),
		humanize.Comma(item.Blank),
		humanize.Comma(item.Invalid),
	}
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.Report) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// PrintYAML 把扫描结果输出为 YAML。
func PrintYAML(writer io.Writer, result model.Report) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return encoder.Close()
}

// PrintKeyValue 输出适合 grep/awk 的 key=value 行。
//
// 示例：
//
//	language.Go.files=3
//	total.code=120
func PrintKeyValue(writer io.Writer, result model.Report) error {
	var builder strings.Builder

	writeTally := func(prefix string, item model.LanguageTally) {
		fmt.Fprintf(&builder, "%s.files=%d\n", prefix, item.Files)
		fmt.Fprintf(&builder, "%s.code=%d\n", prefix, item.Code)
		fmt.Fprintf(&builder, "%s.comment=%d\n", prefix, item.Comment)
		fmt.Fprintf(&builder, "%s.blank=%d\n", prefix, item.Blank)
		fmt.Fprintf(&builder, "%s.invalid=%d\n", prefix, item.Invalid)
	}

	fmt.Fprintf(&builder, "scanned_path=%s\n", result.ScannedPath)
	for _, item := range result.Languages {
		writeTally("language."+item.Language, item)
	}
	writeTally("total", result.Total)
	fmt.Fprintf(&builder, "error_files=%d\n", result.ErrorFiles)
	fmt.Fprintf(&builder, "unrecognized_files=%d\n", result.UnrecognizedFiles)
	fmt.Fprintf(&builder, "elapsed_seconds=%.6f\n", result.Elapsed.Seconds())

	_, err := io.WriteString(writer, builder.String())
	return err
}

// WriteFile 将结果按格式导出到指定路径，table 格式按 JSON 导出。
// 如果目录不存在会自动创建。
func WriteFile(path string, format Format, result model.Report) error {
	if format == FormatTable {
		format = FormatJSON
	}

	var buffer strings.Builder
	if err := Write(&buffer, format, result); err != nil {
		return err
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, []byte(buffer.String()), 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
