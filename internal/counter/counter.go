// Package counter 负责单文件统计：读取文件、识别语言、调用分类器并折叠计数。
package counter

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"countlines/internal/languages"
	"countlines/internal/model"
)

// Counter 是单文件计数器，多个 goroutine 可以共享同一个实例。
type Counter struct {
	registry *languages.Registry
	decoder  *Decoder
	root     string
	logger   *log.Logger
}

// Option 用于定制 Counter。
type Option func(*Counter)

// WithRoot 设置展示路径的基准目录，结果中的 Path 会相对该目录。
func WithRoot(root string) Option {
	return func(c *Counter) {
		c.root = root
	}
}

// WithDecoder 设置文本解码方式，默认按 UTF-8 严格校验。
func WithDecoder(decoder *Decoder) Option {
	return func(c *Counter) {
		c.decoder = decoder
	}
}

// WithLogger 设置日志输出。
func WithLogger(logger *log.Logger) Option {
	return func(c *Counter) {
		c.logger = logger
	}
}

// New 创建计数器。
func New(registry *languages.Registry, opts ...Option) *Counter {
	counter := &Counter{
		registry: registry,
		decoder:  &Decoder{},
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(counter)
	}
	return counter
}

// Count 统计一个文件。
// 第二个返回值为 false 表示没有匹配的语言，文件应被静默跳过。
func (c *Counter) Count(path string) (model.FileTally, bool) {
	grammar, ok := c.registry.Lookup(path)
	if !ok {
		return model.FileTally{}, false
	}

	tally := model.FileTally{
		Path:     c.displayPath(path),
		Language: grammar.Name,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		c.logger.Printf("count: read %s failed: %v", tally.Path, err)
		tally.Fault = model.FaultIO
		tally.Error = err.Error()
		return tally, true
	}

	content, err = c.decoder.Decode(content)
	if err != nil {
		c.logger.Printf("count: decode %s failed: %v", tally.Path, err)
		tally.Fault = model.FaultDecode
		tally.Error = err.Error()
		return tally, true
	}

	kinds := languages.Classify(content, grammar)
	tally.Lines = model.CountKinds(kinds)
	tally.Success = tally.Lines.Invalid == 0

	if !tally.Success {
		tally.Fault = model.FaultDecode
		tally.Error = fmt.Sprintf("invalid text at line %d", firstInvalid(kinds))
		c.logger.Printf("count: %s: %s", tally.Path, tally.Error)
	}
	return tally, true
}

// displayPath 返回相对 root 的斜杠路径，无法计算时退回原路径。
func (c *Counter) displayPath(path string) string {
	if c.root == "" {
		return filepath.ToSlash(path)
	}
	relative, err := filepath.Rel(c.root, path)
	if err != nil || relative == "." {
		return filepath.ToSlash(filepath.Base(path))
	}
	return filepath.ToSlash(relative)
}

// firstInvalid 返回第一个 Invalid 行的行号（从 1 开始）。
func firstInvalid(kinds []model.LineKind) int {
	for idx, kind := range kinds {
		if kind == model.Invalid {
			return idx + 1
		}
	}
	return 0
}
