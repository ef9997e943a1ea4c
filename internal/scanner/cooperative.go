package scanner

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"countlines/internal/aggregate"
	"countlines/internal/model"
)

// cooperativeStrategy 为每个文件启动一个 goroutine，
// 用加权信号量限制同时打开的文件数量，避免文件描述符耗尽。
// 结果只由一个收集 goroutine 写入聚合器，因此聚合过程不需要加锁。
type cooperativeStrategy struct {
	limit int64
}

// outcome 是单个任务的执行产物。
type outcome struct {
	tally      model.FileTally
	recognized bool
}

func (s cooperativeStrategy) Name() Kind {
	return Cooperative
}

func (s cooperativeStrategy) Run(ctx context.Context, paths <-chan string, counter FileCounter, keepFiles bool) (*aggregate.Aggregator, error) {
	agg := aggregate.New(keepFiles)
	results := make(chan outcome, s.limit)
	collected := make(chan struct{})

	go func() {
		defer close(collected)
		for item := range results {
			record(agg, item.tally, item.recognized)
		}
	}()

	sem := semaphore.NewWeighted(s.limit)
	var inFlight sync.WaitGroup

	for path := range paths {
		// Acquire 在 ctx 取消时立即返回错误，此后不再派发新文件。
		if err := sem.Acquire(ctx, 1); err != nil {
			drain(paths)
			break
		}

		inFlight.Add(1)
		go func(path string) {
			defer inFlight.Done()
			defer sem.Release(1)

			tally, ok := counter.Count(path)
			results <- outcome{tally: tally, recognized: ok}
		}(path)
	}

	inFlight.Wait()
	close(results)
	<-collected

	return agg, ctx.Err()
}
