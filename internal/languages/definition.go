package languages

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Definition 是用户自定义语言的序列化格式。
// 同一结构同时用于 JSON/YAML/TOML 文件以及配置文件中的 languages 段。
//
// 示例（JSON）：
//
//	[{"name": "Zig", "extensions": [".zig"], "line_comments": ["//"],
//	  "strings": [{"open": "\"", "escape": "\\"}]}]
type Definition struct {
	Name          string       `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
	Extensions    []string     `json:"extensions" yaml:"extensions" toml:"extensions" mapstructure:"extensions"`
	Filenames     []string     `json:"filenames" yaml:"filenames" toml:"filenames" mapstructure:"filenames"`
	LineComments  []string     `json:"line_comments" yaml:"line_comments" toml:"line_comments" mapstructure:"line_comments"`
	BlockComments [][]string   `json:"block_comments" yaml:"block_comments" toml:"block_comments" mapstructure:"block_comments"`
	Nested        bool         `json:"nested" yaml:"nested" toml:"nested" mapstructure:"nested"`
	Strings       []StringSpec `json:"strings" yaml:"strings" toml:"strings" mapstructure:"strings"`
	Literals      []string     `json:"literals" yaml:"literals" toml:"literals" mapstructure:"literals"`
}

// StringSpec 是 StringRule 的序列化格式。
type StringSpec struct {
	Open      string `json:"open" yaml:"open" toml:"open" mapstructure:"open"`
	Close     string `json:"close" yaml:"close" toml:"close" mapstructure:"close"`
	Escape    string `json:"escape" yaml:"escape" toml:"escape" mapstructure:"escape"`
	Multiline bool   `json:"multiline" yaml:"multiline" toml:"multiline" mapstructure:"multiline"`
}

// tomlDocument 是 TOML 文件的顶层结构，TOML 不支持顶层数组。
type tomlDocument struct {
	Languages []Definition `toml:"languages"`
}

// Grammar 把序列化定义转换为 Grammar 并校验。
func (d Definition) Grammar() (Grammar, error) {
	grammar := Grammar{
		Name:           d.Name,
		Extensions:     d.Extensions,
		Filenames:      d.Filenames,
		LineComments:   d.LineComments,
		NestedComments: d.Nested,
		Literals:       d.Literals,
	}
	for _, pair := range d.BlockComments {
		if len(pair) != 2 {
			return Grammar{}, fmt.Errorf("%w: %s: block comment must be [open, close], got %d items", ErrInvalidGrammar, d.Name, len(pair))
		}
		grammar.BlockComments = append(grammar.BlockComments, BlockComment{Open: pair[0], Close: pair[1]})
	}
	for _, spec := range d.Strings {
		grammar.Strings = append(grammar.Strings, StringRule{
			Open:      spec.Open,
			Close:     spec.Close,
			Escape:    spec.Escape,
			Multiline: spec.Multiline,
		})
	}

	if err := grammar.Validate(); err != nil {
		return Grammar{}, err
	}
	return grammar, nil
}

// Grammars 批量转换定义，遇到第一个错误即返回。
func Grammars(definitions []Definition) ([]Grammar, error) {
	grammars := make([]Grammar, 0, len(definitions))
	for idx, definition := range definitions {
		grammar, err := definition.Grammar()
		if err != nil {
			return nil, fmt.Errorf("language definition #%d: %w", idx+1, err)
		}
		grammars = append(grammars, grammar)
	}
	return grammars, nil
}

// ParseDefinitions 按格式解析定义内容，format 取值 json、yaml、toml。
func ParseDefinitions(data []byte, format string) ([]Definition, error) {
	var definitions []Definition

	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &definitions); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidGrammar, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &definitions); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidGrammar, err)
		}
	case "toml":
		var document tomlDocument
		if err := toml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("%w: decode toml: %v", ErrInvalidGrammar, err)
		}
		definitions = document.Languages
	default:
		return nil, fmt.Errorf("unsupported language definition format %q", format)
	}

	return definitions, nil
}

// LoadDefinitionsFile 读取定义文件，格式由后缀决定。
func LoadDefinitionsFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read language definitions: %w", err)
	}

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	definitions, err := ParseDefinitions(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return definitions, nil
}
