package scanner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"countlines/internal/aggregate"
	"countlines/internal/model"
)

// ErrUnknownStrategy 表示无法识别的执行策略名称。
var ErrUnknownStrategy = errors.New("unknown execution strategy")

// Kind 是执行策略标识。
type Kind string

const (
	// Sequential 在调用方 goroutine 中逐个处理文件。
	Sequential Kind = "sequential"
	// Cooperative 为每个文件启动 goroutine，用信号量限制同时在途的文件数。
	Cooperative Kind = "cooperative"
	// Parallel 使用固定数量的 worker，各自累加后统一归并。
	Parallel Kind = "parallel"
)

// DefaultConcurrency 是 Cooperative 策略默认的在途文件上限。
const DefaultConcurrency = 64

// FileCounter 是单文件计数能力，counter.Counter 实现了该接口。
type FileCounter interface {
	Count(path string) (model.FileTally, bool)
}

// Strategy 定义统一的执行契约：消费路径流，产出聚合结果。
// 三种实现对同一输入必须得到完全相同的报告。
type Strategy interface {
	Name() Kind
	Run(ctx context.Context, paths <-chan string, counter FileCounter, keepFiles bool) (*aggregate.Aggregator, error)
}

// ParseStrategy 解析策略名称，兼容若干别名。
func ParseStrategy(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "parallel":
		return Parallel, nil
	case "sequential", "none":
		return Sequential, nil
	case "cooperative", "cooperative-concurrent", "concurrent":
		return Cooperative, nil
	default:
		return "", fmt.Errorf("%w: %q (allowed: sequential, cooperative, parallel)", ErrUnknownStrategy, name)
	}
}

// NewStrategy 根据标识创建策略实例。
// workers 只对 Parallel 生效，concurrency 只对 Cooperative 生效，<=0 时取默认值。
func NewStrategy(kind Kind, workers int, concurrency int) (Strategy, error) {
	switch kind {
	case Sequential:
		return sequentialStrategy{}, nil
	case Cooperative:
		if concurrency <= 0 {
			concurrency = DefaultConcurrency
		}
		return cooperativeStrategy{limit: int64(concurrency)}, nil
	case Parallel:
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		return parallelStrategy{workers: workers}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}

// pathBuffer 返回路径通道的缓冲区大小，与策略同时在途的文件数对应。
func pathBuffer(strategy Strategy) int {
	switch s := strategy.(type) {
	case cooperativeStrategy:
		return int(s.limit)
	case parallelStrategy:
		return 2 * s.workers
	default:
		return 1
	}
}

// record 把单个计数结果写入聚合器。
func record(agg *aggregate.Aggregator, tally model.FileTally, recognized bool) {
	if !recognized {
		agg.AddUnrecognized()
		return
	}
	agg.Add(tally)
}
