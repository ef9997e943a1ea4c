package languages

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lookupCacheSize 是文件名到语言下标缓存的容量。
const lookupCacheSize = 4096

// noMatch 表示缓存中记录的“未识别”结果。
const noMatch = -1

// LanguageDescriptor 用于对外展示语言及匹配规则。
type LanguageDescriptor struct {
	Name        string
	Extensions  []string
	Filenames   []string
	UserDefined bool
}

// Registry 管理语言定义与文件名匹配。
// 构造完成后只读，多个 goroutine 可以不加锁并发调用 Lookup。
type Registry struct {
	grammars  []*Grammar
	userCount int
	// cache 以小写文件名为键缓存匹配结果，内部自带锁。
	cache *lru.Cache[string, int]
}

// NewRegistry 创建注册中心。
//
// 约束说明：
// - user 中的定义全部在内置定义之前参与匹配，同后缀时用户定义优先
// - 与用户定义同名的内置语言会被整体替换
// - 用户定义不合法、或多个用户定义声明了同一个后缀/文件名时返回错误
func NewRegistry(user ...Grammar) (*Registry, error) {
	overridden := make(map[string]struct{}, len(user))
	claimed := make(map[string]string)
	registry := &Registry{userCount: len(user)}

	for idx := range user {
		grammar := user[idx]
		if err := grammar.Validate(); err != nil {
			return nil, err
		}
		for _, key := range matcherKeys(&grammar) {
			if owner, ok := claimed[key]; ok {
				return nil, fmt.Errorf("%w: %q is claimed by both %s and %s", ErrInvalidGrammar, key, owner, grammar.Name)
			}
			claimed[key] = grammar.Name
		}
		overridden[strings.ToLower(grammar.Name)] = struct{}{}
		registry.grammars = append(registry.grammars, &grammar)
	}

	for _, grammar := range builtinGrammars() {
		if _, ok := overridden[strings.ToLower(grammar.Name)]; ok {
			continue
		}
		registry.grammars = append(registry.grammars, &grammar)
	}

	cache, err := lru.New[string, int](lookupCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}
	registry.cache = cache
	return registry, nil
}

// matcherKeys 返回语言的全部匹配键（小写后缀与文件名）。
func matcherKeys(grammar *Grammar) []string {
	keys := make([]string, 0, len(grammar.Extensions)+len(grammar.Filenames))
	for _, ext := range grammar.Extensions {
		keys = append(keys, strings.ToLower(ext))
	}
	for _, name := range grammar.Filenames {
		keys = append(keys, strings.ToLower(name))
	}
	return keys
}

// Lookup 根据文件名查找语言，按声明顺序取第一个命中的定义。
// 未识别时返回 false，调用方应跳过该文件。
func (r *Registry) Lookup(path string) (*Grammar, bool) {
	base := strings.ToLower(filepath.Base(path))
	if idx, ok := r.cache.Get(base); ok {
		if idx == noMatch {
			return nil, false
		}
		return r.grammars[idx], true
	}

	idx := noMatch
	for i, grammar := range r.grammars {
		if grammar.matches(base) {
			idx = i
			break
		}
	}
	r.cache.Add(base, idx)

	if idx == noMatch {
		return nil, false
	}
	return r.grammars[idx], true
}

// Languages 返回已注册语言清单，按名称排序。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.grammars))
	for idx, grammar := range r.grammars {
		extensions := append([]string(nil), grammar.Extensions...)
		sort.Strings(extensions)
		filenames := append([]string(nil), grammar.Filenames...)
		sort.Strings(filenames)
		result = append(result, LanguageDescriptor{
			Name:        grammar.Name,
			Extensions:  extensions,
			Filenames:   filenames,
			UserDefined: idx < r.userCount,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
