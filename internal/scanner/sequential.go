package scanner

import (
	"context"

	"countlines/internal/aggregate"
)

// sequentialStrategy 在调用方 goroutine 中逐个处理文件，结果顺序确定。
type sequentialStrategy struct{}

func (sequentialStrategy) Name() Kind {
	return Sequential
}

func (sequentialStrategy) Run(ctx context.Context, paths <-chan string, counter FileCounter, keepFiles bool) (*aggregate.Aggregator, error) {
	agg := aggregate.New(keepFiles)
	for path := range paths {
		// 中断后不再处理新文件，但要把通道读空，让生产者退出。
		if ctx.Err() != nil {
			drain(paths)
			break
		}
		tally, ok := counter.Count(path)
		record(agg, tally, ok)
	}
	return agg, ctx.Err()
}

// drain 读空路径通道。
func drain(paths <-chan string) {
	for range paths {
	}
}
