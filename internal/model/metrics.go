// Package model 定义 countlines 的核心数据模型。
// 这些结构会被分类器、计数器、聚合器、输出层和命令层共同使用。
package model

import "time"

// LineKind 表示单个物理行的分类结果。
// 四种分类互斥：每一行只会落入其中一类。
type LineKind int

const (
	// Blank 为空行或仅包含空白字符的行。
	Blank LineKind = iota
	// Code 至少包含一个代码字符（包括字符串字面量）。
	Code
	// Comment 只包含注释内容。
	Comment
	// Invalid 无法按声明编码解码的行。
	Invalid
)

// String 返回分类名称，主要用于测试失败信息和调试日志。
func (k LineKind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Code:
		return "code"
	case Comment:
		return "comment"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// LineCounts 表示一组行级统计值。
//
// 注意：
// - 与分类一一对应，同一行只会让其中一个字段 +1
// - Lines() 返回四项之和，即物理行数
type LineCounts struct {
	Code    int64 `json:"code" yaml:"code"`
	Comment int64 `json:"comment" yaml:"comment"`
	Blank   int64 `json:"blank" yaml:"blank"`
	Invalid int64 `json:"invalid" yaml:"invalid"`
}

// AddKind 根据单行分类累加计数。
func (c *LineCounts) AddKind(kind LineKind) {
	switch kind {
	case Code:
		c.Code++
	case Comment:
		c.Comment++
	case Blank:
		c.Blank++
	case Invalid:
		c.Invalid++
	}
}

// Add 将另一个统计结果叠加到当前对象。
func (c *LineCounts) Add(other LineCounts) {
	c.Code += other.Code
	c.Comment += other.Comment
	c.Blank += other.Blank
	c.Invalid += other.Invalid
}

// Lines 返回物理行总数。
func (c LineCounts) Lines() int64 {
	return c.Code + c.Comment + c.Blank + c.Invalid
}

// CountKinds 把分类序列折叠成计数。
func CountKinds(kinds []LineKind) LineCounts {
	var counts LineCounts
	for _, kind := range kinds {
		counts.AddKind(kind)
	}
	return counts
}

// Fault 描述单文件失败的原因。
type Fault string

const (
	// FaultNone 表示文件被完整统计。
	FaultNone Fault = ""
	// FaultIO 表示文件无法读取（权限、文件消失等），该文件不计入语言统计。
	FaultIO Fault = "io"
	// FaultDecode 表示文件中途出现无法解码的字节，从故障行起全部记为 invalid。
	FaultDecode Fault = "decode"
)

// FileTally 表示单文件扫描结果。
type FileTally struct {
	Path     string     `json:"path" yaml:"path"`
	Language string     `json:"language" yaml:"language"`
	Lines    LineCounts `json:"lines" yaml:"lines"`
	Success  bool       `json:"success" yaml:"success"`
	Fault    Fault      `json:"fault,omitempty" yaml:"fault,omitempty"`
	Error    string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// LanguageTally 表示某个语言的聚合结果。
type LanguageTally struct {
	Language string `json:"language" yaml:"language"`
	Files    int64  `json:"files" yaml:"files"`
	LineCounts `yaml:",inline"`
}

// AddFile 累加一个文件的统计值。
func (t *LanguageTally) AddFile(lines LineCounts) {
	t.Files++
	t.LineCounts.Add(lines)
}

// Merge 合并另一个同语言（或总计）的统计结果。
func (t *LanguageTally) Merge(other LanguageTally) {
	t.Files += other.Files
	t.LineCounts.Add(other.LineCounts)
}

// FileError 记录单文件扫描失败信息。
// 设计为“错误不阻断全量扫描”，便于大仓库分析时容错。
type FileError struct {
	Path  string `json:"path" yaml:"path"`
	Fault Fault  `json:"fault" yaml:"fault"`
	Error string `json:"error" yaml:"error"`
}

// Report 是一次扫描的完整输出模型，构造后不再修改。
// Languages 按 code 行数降序排列，相同时按语言名升序。
type Report struct {
	ScannedPath       string          `json:"scanned_path" yaml:"scanned_path"`
	Languages         []LanguageTally `json:"languages" yaml:"languages"`
	Total             LanguageTally   `json:"total" yaml:"total"`
	ErrorFiles        int64           `json:"error_files" yaml:"error_files"`
	UnrecognizedFiles int64           `json:"unrecognized_files" yaml:"unrecognized_files"`
	Errors            []FileError     `json:"errors" yaml:"errors"`
	Files             []FileTally     `json:"files,omitempty" yaml:"files,omitempty"`
	Elapsed           time.Duration   `json:"elapsed_ns" yaml:"elapsed"`
}
