// Package walker 负责目录遍历，输出经过排除规则、深度和符号链接策略过滤后的文件路径流。
package walker

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options 控制遍历范围。
type Options struct {
	// Exclude 是 doublestar glob 列表；相对模式相对扫描根目录，绝对模式匹配绝对路径。
	Exclude []string
	// MaxDepth 限制遍历深度，根目录为 0，直接子项为 1；0 表示不限制。
	MaxDepth int
	// FollowLinks 为 true 时跟随符号链接，并通过真实路径去重避免环路。
	FollowLinks bool
	// IgnoreHidden 为 true 时跳过以 . 开头的文件与目录。
	IgnoreHidden bool
	// Buffer 是路径通道的缓冲区大小，<=0 时取 64。
	Buffer int
	// Logger 用于输出遍历过程中的非致命错误。
	Logger *log.Logger
}

// Failure 记录遍历中无法读取的路径，调用方把它计为错误文件。
type Failure struct {
	Path string
	Err  error
}

// Walker 是一次遍历的句柄。
type Walker struct {
	root     string
	options  Options
	patterns []string
	failures []Failure
	visited  map[string]struct{}
}

// New 校验排除规则并创建 Walker，非法 glob 在遍历开始前报错。
func New(root string, options Options) (*Walker, error) {
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	patterns := make([]string, 0, len(options.Exclude))
	for _, pattern := range options.Exclude {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		pattern = filepath.ToSlash(filepath.Clean(pattern))
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
		patterns = append(patterns, pattern)
	}

	if options.Logger == nil {
		options.Logger = log.New(io.Discard, "", 0)
	}
	if options.Buffer <= 0 {
		options.Buffer = 64
	}

	return &Walker{
		root:     absoluteRoot,
		options:  options,
		patterns: patterns,
		visited:  make(map[string]struct{}),
	}, nil
}

// Root 返回绝对根路径。
func (w *Walker) Root() string {
	return w.root
}

// Walk 在独立 goroutine 中遍历并返回路径通道。
// ctx 取消后停止产出新路径并关闭通道；根路径本身不可读时返回错误。
func (w *Walker) Walk(ctx context.Context) (<-chan string, error) {
	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	paths := make(chan string, w.options.Buffer)
	go func() {
		defer close(paths)
		if !info.IsDir() {
			emit(ctx, paths, w.root)
			return
		}
		w.rememberDir(w.root)
		w.walkDir(ctx, paths, w.root, 0)
	}()
	return paths, nil
}

// Failures 返回遍历失败列表，只能在路径通道关闭后调用。
func (w *Walker) Failures() []Failure {
	return append([]Failure(nil), w.failures...)
}

// walkDir 递归遍历目录，返回 false 表示 ctx 已取消。
func (w *Walker) walkDir(ctx context.Context, paths chan<- string, dir string, depth int) bool {
	childDepth := depth + 1
	if w.options.MaxDepth > 0 && childDepth > w.options.MaxDepth {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.fail(dir, err)
		return ctx.Err() == nil
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return false
		}

		name := entry.Name()
		path := filepath.Join(dir, name)
		if w.options.IgnoreHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if w.excluded(path) {
			continue
		}

		mode := entry.Type()
		if mode&os.ModeSymlink != 0 {
			if !w.options.FollowLinks {
				continue
			}
			target, statErr := os.Stat(path)
			if statErr != nil {
				w.fail(path, statErr)
				continue
			}
			mode = target.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if !w.rememberDir(path) {
				continue
			}
			if !w.walkDir(ctx, paths, path, childDepth) {
				return false
			}
		case mode.IsRegular():
			if !emit(ctx, paths, path) {
				return false
			}
		}
	}
	return true
}

// excluded 判断路径是否命中排除规则。
func (w *Walker) excluded(path string) bool {
	if len(w.patterns) == 0 {
		return false
	}

	absolute := filepath.ToSlash(path)
	relative := absolute
	if rel, err := filepath.Rel(w.root, path); err == nil {
		relative = filepath.ToSlash(rel)
	}

	for _, pattern := range w.patterns {
		candidate := relative
		if strings.HasPrefix(pattern, "/") || filepath.IsAbs(pattern) {
			candidate = absolute
		}
		if matched, _ := doublestar.Match(pattern, candidate); matched {
			return true
		}
	}
	return false
}

// rememberDir 记录目录的真实路径，已访问过时返回 false。
func (w *Walker) rememberDir(path string) bool {
	if !w.options.FollowLinks {
		return true
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	if _, ok := w.visited[resolved]; ok {
		w.options.Logger.Printf("walk: skip %s, already visited as %s", path, resolved)
		return false
	}
	w.visited[resolved] = struct{}{}
	return true
}

func (w *Walker) fail(path string, err error) {
	w.options.Logger.Printf("walk: %s: %v", path, err)
	relative := path
	if rel, relErr := filepath.Rel(w.root, path); relErr == nil {
		relative = rel
	}
	w.failures = append(w.failures, Failure{Path: filepath.ToSlash(relative), Err: err})
}

func emit(ctx context.Context, paths chan<- string, path string) bool {
	select {
	case paths <- path:
		return true
	case <-ctx.Done():
		return false
	}
}
