package languages

// 常用的字符串规则。
var (
	doubleQuoted = StringRule{Open: `"`, Escape: `\`}
	singleQuoted = StringRule{Open: `'`, Escape: `\`}
	cBlock       = BlockComment{Open: "/*", Close: "*/"}
)

// builtinGrammars 返回内置语言定义，顺序即匹配优先级。
// 每次调用返回新切片，调用方可以安全修改。
func builtinGrammars() []Grammar {
	return []Grammar{
		{
			Name:          "Go",
			Extensions:    []string{".go"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings: []StringRule{
				doubleQuoted,
				singleQuoted,
				// 原始字符串仅由反引号闭合，不处理转义。
				{Open: "`", Multiline: true},
			},
		},
		{
			Name:          "JavaScript",
			Extensions:    []string{".js", ".mjs", ".cjs", ".jsx"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings: []StringRule{
				doubleQuoted,
				singleQuoted,
				{Open: "`", Escape: `\`, Multiline: true},
			},
		},
		{
			Name:          "TypeScript",
			Extensions:    []string{".ts", ".mts", ".cts", ".tsx"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings: []StringRule{
				doubleQuoted,
				singleQuoted,
				{Open: "`", Escape: `\`, Multiline: true},
			},
		},
		{
			Name:         "Python",
			Extensions:   []string{".py", ".pyi", ".pyw"},
			LineComments: []string{"#"},
			// 三引号必须排在单引号之前，否则会被拆成空字符串。
			Strings: []StringRule{
				{Open: `"""`, Escape: `\`, Multiline: true},
				{Open: `'''`, Escape: `\`, Multiline: true},
				doubleQuoted,
				singleQuoted,
			},
		},
		{
			Name:           "Rust",
			Extensions:     []string{".rs"},
			LineComments:   []string{"//"},
			BlockComments:  []BlockComment{cBlock},
			NestedComments: true,
			// 单引号同时用于生命周期标注，不当作字符串处理；
			// 只有包含双引号的字符字面量需要整体跳过（b'"' 的 b 按普通代码处理）。
			Literals: []string{`'"'`, `'\"'`},
			// 原始字符串不处理转义，# 越多的形式排在前面。
			Strings: []StringRule{
				{Open: `r###"`, Close: `"###`, Multiline: true},
				{Open: `r##"`, Close: `"##`, Multiline: true},
				{Open: `r#"`, Close: `"#`, Multiline: true},
				{Open: `r"`, Close: `"`, Multiline: true},
				{Open: `"`, Escape: `\`, Multiline: true},
			},
		},
		{
			Name:          "Ruby",
			Extensions:    []string{".rb", ".rake", ".gemspec"},
			Filenames:     []string{"Rakefile", "Gemfile"},
			LineComments:  []string{"#"},
			BlockComments: []BlockComment{{Open: "=begin", Close: "=end"}},
			Strings:       []StringRule{doubleQuoted, singleQuoted},
		},
		{
			Name:          "Java",
			Extensions:    []string{".java"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings: []StringRule{
				{Open: `"""`, Escape: `\`, Multiline: true},
				doubleQuoted,
				singleQuoted,
			},
		},
		{
			Name:          "Kotlin",
			Extensions:    []string{".kt", ".kts"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			// Kotlin 的块注释允许嵌套。
			NestedComments: true,
			Strings: []StringRule{
				{Open: `"""`, Multiline: true},
				doubleQuoted,
				singleQuoted,
			},
		},
		{
			Name:          "C",
			Extensions:    []string{".c", ".h"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings:       []StringRule{doubleQuoted, singleQuoted},
		},
		{
			Name:          "C++",
			Extensions:    []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings:       []StringRule{doubleQuoted, singleQuoted},
		},
		{
			Name:          "C#",
			Extensions:    []string{".cs"},
			LineComments:  []string{"//"},
			BlockComments: []BlockComment{cBlock},
			Strings:       []StringRule{doubleQuoted, singleQuoted},
		},
		{
			Name:           "Swift",
			Extensions:     []string{".swift"},
			LineComments:   []string{"//"},
			BlockComments:  []BlockComment{cBlock},
			NestedComments: true,
			Strings: []StringRule{
				{Open: `"""`, Escape: `\`, Multiline: true},
				doubleQuoted,
			},
		},
		{
			Name:          "PHP",
			Extensions:    []string{".php"},
			LineComments:  []string{"//", "#"},
			BlockComments: []BlockComment{cBlock},
			Strings:       []StringRule{doubleQuoted, singleQuoted},
		},
		{
			Name:           "SQL",
			Extensions:     []string{".sql"},
			LineComments:   []string{"--"},
			BlockComments:  []BlockComment{cBlock},
			NestedComments: true,
			// SQL 用两个单引号转义，拆成两个相邻字符串不影响行分类。
			Strings: []StringRule{{Open: `'`}, {Open: `"`}},
		},
		{
			Name:          "Lua",
			Extensions:    []string{".lua"},
			BlockComments: []BlockComment{{Open: "--[[", Close: "]]"}},
			// 行注释排在块注释之后检查，所以 --[[ 不会被当作行注释。
			LineComments: []string{"--"},
			Strings: []StringRule{
				doubleQuoted,
				singleQuoted,
				{Open: "[[", Close: "]]", Multiline: true},
			},
		},
		{
			Name:           "Haskell",
			Extensions:     []string{".hs"},
			LineComments:   []string{"--"},
			BlockComments:  []BlockComment{{Open: "{-", Close: "-}"}},
			NestedComments: true,
			Strings:        []StringRule{doubleQuoted},
		},
		{
			Name:         "Shell",
			Extensions:   []string{".sh", ".bash", ".zsh"},
			LineComments: []string{"#"},
			Strings:      []StringRule{doubleQuoted, {Open: `'`, Multiline: true}},
		},
		{
			Name:         "Makefile",
			Extensions:   []string{".mk"},
			Filenames:    []string{"Makefile", "GNUmakefile"},
			LineComments: []string{"#"},
		},
		{
			Name:         "Dockerfile",
			Filenames:    []string{"Dockerfile"},
			LineComments: []string{"#"},
		},
		{
			Name:         "YAML",
			Extensions:   []string{".yaml", ".yml"},
			LineComments: []string{"#"},
			Strings:      []StringRule{doubleQuoted, {Open: `'`}},
		},
		{
			Name:         "TOML",
			Extensions:   []string{".toml"},
			LineComments: []string{"#"},
			Strings: []StringRule{
				{Open: `"""`, Escape: `\`, Multiline: true},
				{Open: `'''`, Multiline: true},
				doubleQuoted,
				{Open: `'`},
			},
		},
		{
			Name:       "JSON",
			Extensions: []string{".json"},
			Strings:    []StringRule{doubleQuoted},
		},
		{
			Name:          "HTML",
			Extensions:    []string{".html", ".htm"},
			BlockComments: []BlockComment{{Open: "<!--", Close: "-->"}},
		},
		{
			Name:          "XML",
			Extensions:    []string{".xml", ".xsd", ".svg"},
			BlockComments: []BlockComment{{Open: "<!--", Close: "-->"}},
		},
		{
			Name:          "CSS",
			Extensions:    []string{".css"},
			BlockComments: []BlockComment{cBlock},
			Strings:       []StringRule{doubleQuoted, singleQuoted},
		},
		{
			Name:          "Markdown",
			Extensions:    []string{".md", ".markdown"},
			BlockComments: []BlockComment{{Open: "<!--", Close: "-->"}},
		},
	}
}
