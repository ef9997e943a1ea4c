package languages

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGrammar 表示语言定义不合法。
// 用户自定义语言在启动阶段校验，校验失败时整个扫描不会开始。
var ErrInvalidGrammar = errors.New("invalid language grammar")

// BlockComment 描述一对块注释定界符。
type BlockComment struct {
	Open  string
	Close string
}

// StringRule 描述一种字符串字面量。
//
// 约束说明：
// - Close 为空时与 Open 相同
// - Escape 非空时，其后的一个字符按字面处理，不会结束字符串
// - Multiline 为 false 时，字符串在行尾自动结束
type StringRule struct {
	Open      string
	Close     string
	Escape    string
	Multiline bool
}

// closer 返回实际使用的结束定界符。
func (r StringRule) closer() string {
	if r.Close == "" {
		return r.Open
	}
	return r.Close
}

// Grammar 是单个语言的词法规则，构造后只读。
// 所有语言共用同一个结构，不为每种语言单独实现类型。
type Grammar struct {
	Name           string
	Extensions     []string
	Filenames      []string
	LineComments   []string
	BlockComments  []BlockComment
	NestedComments bool
	Strings        []StringRule
	// Literals 是整体当作代码消费的记号，优先于字符串和注释匹配，
	// 例如 Rust 的 '"'，避免其中的引号打开字符串。
	Literals []string
}

// Validate 检查语言定义是否合法。
// 后缀规则：以 . 开头、点号后至少一个字符、不包含第二个点号、不重复。
func (g *Grammar) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidGrammar)
	}
	if len(g.Extensions) == 0 && len(g.Filenames) == 0 {
		return fmt.Errorf("%w: %s declares no extensions or filenames", ErrInvalidGrammar, g.Name)
	}

	seen := make(map[string]struct{}, len(g.Extensions))
	for _, ext := range g.Extensions {
		switch {
		case len(ext) < 2:
			return fmt.Errorf("%w: %s: extension %q is empty", ErrInvalidGrammar, g.Name, ext)
		case !strings.HasPrefix(ext, "."):
			return fmt.Errorf("%w: %s: extension %q doesn't start with a dot", ErrInvalidGrammar, g.Name, ext)
		case strings.Contains(ext[1:], "."):
			return fmt.Errorf("%w: %s: extension %q contains a dot", ErrInvalidGrammar, g.Name, ext)
		}
		key := strings.ToLower(ext)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s: extension %q used twice", ErrInvalidGrammar, g.Name, ext)
		}
		seen[key] = struct{}{}
	}
	for _, name := range g.Filenames {
		if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %s: filename %q is not a base name", ErrInvalidGrammar, g.Name, name)
		}
	}

	for _, marker := range g.LineComments {
		if marker == "" {
			return fmt.Errorf("%w: %s: empty line comment marker", ErrInvalidGrammar, g.Name)
		}
	}
	for _, pair := range g.BlockComments {
		if pair.Open == "" || pair.Close == "" {
			return fmt.Errorf("%w: %s: block comment needs both open and close", ErrInvalidGrammar, g.Name)
		}
	}
	for _, rule := range g.Strings {
		if rule.Open == "" {
			return fmt.Errorf("%w: %s: string delimiter is empty", ErrInvalidGrammar, g.Name)
		}
	}
	for _, literal := range g.Literals {
		if literal == "" {
			return fmt.Errorf("%w: %s: empty literal token", ErrInvalidGrammar, g.Name)
		}
	}
	return nil
}

// matches 判断小写文件名是否命中该语言。
func (g *Grammar) matches(base string) bool {
	for _, name := range g.Filenames {
		if strings.EqualFold(base, name) {
			return true
		}
	}
	for _, ext := range g.Extensions {
		if len(base) > len(ext) && strings.HasSuffix(base, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// matchLiteral 返回在 text 开头命中的字面记号长度，未命中时为 0。
func (g *Grammar) matchLiteral(text []byte) int {
	for _, literal := range g.Literals {
		if hasPrefix(text, literal) {
			return len(literal)
		}
	}
	return 0
}

// matchString 返回在 text 开头命中的字符串规则下标与定界符长度。
func (g *Grammar) matchString(text []byte) (int, int) {
	for idx, rule := range g.Strings {
		if hasPrefix(text, rule.Open) {
			return idx, len(rule.Open)
		}
	}
	return -1, 0
}

// matchBlockOpen 返回在 text 开头命中的块注释下标与定界符长度。
func (g *Grammar) matchBlockOpen(text []byte) (int, int) {
	for idx, pair := range g.BlockComments {
		if hasPrefix(text, pair.Open) {
			return idx, len(pair.Open)
		}
	}
	return -1, 0
}

// matchLineComment 判断 text 是否以行注释标记开头。
func (g *Grammar) matchLineComment(text []byte) bool {
	for _, marker := range g.LineComments {
		if hasPrefix(text, marker) {
			return true
		}
	}
	return false
}

func hasPrefix(text []byte, prefix string) bool {
	return len(text) >= len(prefix) && string(text[:len(prefix)]) == prefix
}
