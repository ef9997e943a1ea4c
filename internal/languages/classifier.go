package languages

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"countlines/internal/model"
)

// scanMode 是分类器的词法模式。
type scanMode int

const (
	modeCode scanMode = iota
	modeBlockComment
	modeString
)

// lineScanner 维护单个文件扫描期间的状态。
// 块注释和字符串可以跨行，因此状态保存在结构体里而不是每行重置。
type lineScanner struct {
	grammar *Grammar
	mode    scanMode
	// rule 是当前块注释或字符串规则在 grammar 中的下标。
	rule    int
	depth   int
	faulted bool
}

// Classify 对整段文件内容逐行分类，返回每个物理行的 LineKind。
//
// 约束说明：
// - 以 \n 分行，行尾的 \r 会被去掉
// - 最后一行没有换行符也计为一行，空内容返回零行
// - 第一次遇到非法 UTF-8 后，剩余所有行都记为 Invalid
func Classify(content []byte, grammar *Grammar) []model.LineKind {
	scanner := &lineScanner{grammar: grammar}
	kinds := make([]model.LineKind, 0, bytes.Count(content, []byte{'\n'})+1)

	for len(content) > 0 {
		line := content
		if idx := bytes.IndexByte(content, '\n'); idx >= 0 {
			line = content[:idx]
			content = content[idx+1:]
		} else {
			content = nil
		}
		kinds = append(kinds, scanner.classifyLine(line))
	}
	return kinds
}

// classifyLine 扫描单行并更新状态，返回该行分类。
func (s *lineScanner) classifyLine(line []byte) model.LineKind {
	if s.faulted {
		return model.Invalid
	}
	if !utf8.Valid(line) {
		s.faulted = true
		return model.Invalid
	}
	line = bytes.TrimSuffix(line, []byte{'\r'})

	// 先根据跨行状态赋初值：
	// - 仍在块注释中，本行天然包含 comment；
	// - 仍在多行字符串中，本行天然包含 code。
	hasCode := s.mode == modeString
	hasComment := s.mode == modeBlockComment

	for idx := 0; idx < len(line); {
		switch s.mode {
		case modeBlockComment:
			idx = s.scanBlockComment(line, idx)
		case modeString:
			idx = s.scanString(line, idx)
		default:
			rest := line[idx:]
			current, size := utf8.DecodeRune(rest)
			if unicode.IsSpace(current) {
				idx += size
				continue
			}

			// 检查顺序：字面记号 -> 字符串 -> 块注释 -> 行注释。
			if n := s.grammar.matchLiteral(rest); n > 0 {
				hasCode = true
				idx += n
				continue
			}
			if rule, n := s.grammar.matchString(rest); rule >= 0 {
				hasCode = true
				s.mode, s.rule = modeString, rule
				idx += n
				continue
			}
			if rule, n := s.grammar.matchBlockOpen(rest); rule >= 0 {
				hasComment = true
				s.mode, s.rule, s.depth = modeBlockComment, rule, 1
				idx += n
				continue
			}
			if s.grammar.matchLineComment(rest) {
				hasComment = true
				idx = len(line)
				continue
			}

			hasCode = true
			idx += size
		}
	}

	if s.mode == modeString && !s.grammar.Strings[s.rule].Multiline {
		s.mode = modeCode
	}

	switch {
	case hasCode:
		return model.Code
	case hasComment:
		return model.Comment
	default:
		return model.Blank
	}
}

// scanBlockComment 在块注释中前进一步，返回新的游标。
// 只有开启嵌套时才识别内部的起始定界符。
func (s *lineScanner) scanBlockComment(line []byte, idx int) int {
	pair := s.grammar.BlockComments[s.rule]
	rest := line[idx:]

	if hasPrefix(rest, pair.Close) {
		s.depth--
		if s.depth == 0 {
			s.mode = modeCode
		}
		return idx + len(pair.Close)
	}
	if s.grammar.NestedComments && hasPrefix(rest, pair.Open) {
		s.depth++
		return idx + len(pair.Open)
	}

	_, size := utf8.DecodeRune(rest)
	return idx + size
}

// scanString 在字符串中前进一步，返回新的游标。
func (s *lineScanner) scanString(line []byte, idx int) int {
	rule := s.grammar.Strings[s.rule]
	closer := rule.closer()
	rest := line[idx:]

	// 转义符会吞掉下一个字符，避免误把 \" 当结束引号。
	if rule.Escape != "" && rule.Escape != closer && hasPrefix(rest, rule.Escape) {
		idx += len(rule.Escape)
		if idx < len(line) {
			_, size := utf8.DecodeRune(line[idx:])
			idx += size
		}
		return idx
	}
	if hasPrefix(rest, closer) {
		s.mode = modeCode
		return idx + len(closer)
	}

	_, size := utf8.DecodeRune(rest)
	return idx + size
}
