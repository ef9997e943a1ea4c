package scanner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"countlines/internal/aggregate"
)

// parallelStrategy 启动固定数量的 worker。
// 每个 worker 持有自己的聚合器，全部结束后一次性归并，运行期间没有共享可变状态。
type parallelStrategy struct {
	workers int
}

func (s parallelStrategy) Name() Kind {
	return Parallel
}

func (s parallelStrategy) Run(ctx context.Context, paths <-chan string, counter FileCounter, keepFiles bool) (*aggregate.Aggregator, error) {
	locals := make([]*aggregate.Aggregator, s.workers)
	group, groupCtx := errgroup.WithContext(ctx)

	for i := 0; i < s.workers; i++ {
		local := aggregate.New(keepFiles)
		locals[i] = local

		group.Go(func() error {
			for path := range paths {
				if groupCtx.Err() != nil {
					// 其余 worker 也会走到这里，共同把通道读空。
					continue
				}
				tally, ok := counter.Count(path)
				record(local, tally, ok)
			}
			return nil
		})
	}

	// worker 不返回错误，Wait 只用于同步。
	_ = group.Wait()

	merged := aggregate.New(keepFiles)
	for _, local := range locals {
		merged.Merge(local)
	}
	return merged, ctx.Err()
}
