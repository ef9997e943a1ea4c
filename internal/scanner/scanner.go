// Package scanner 提供扫描调度能力。
// 该层负责把目录遍历、执行策略和结果聚合串起来，不负责语法解析细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"countlines/internal/counter"
	"countlines/internal/languages"
	"countlines/internal/model"
	"countlines/internal/walker"
)

// Options 是扫描服务的可配置参数。
type Options struct {
	Strategy    Kind
	Workers     int
	Concurrency int
	Walk        walker.Options
	// Encoding 为空时按 UTF-8 严格校验。
	Encoding string
	// ByFile 为 true 时在报告中保留文件级明细。
	ByFile bool
	Logger *log.Logger
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	strategy Strategy
	decoder  *counter.Decoder
	options  Options
	logger   *log.Logger
}

// NewService 创建扫描服务，策略名与编码在这里校验，保证扫描开始前暴露配置错误。
func NewService(registry *languages.Registry, options Options) (*Service, error) {
	if options.Strategy == "" {
		options.Strategy = Parallel
	}
	strategy, err := NewStrategy(options.Strategy, options.Workers, options.Concurrency)
	if err != nil {
		return nil, err
	}

	decoder, err := counter.NewDecoder(options.Encoding)
	if err != nil {
		return nil, err
	}

	logger := options.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if options.Walk.Logger == nil {
		options.Walk.Logger = logger
	}
	if options.Walk.Buffer <= 0 {
		options.Walk.Buffer = pathBuffer(strategy)
	}

	return &Service{
		registry: registry,
		strategy: strategy,
		decoder:  decoder,
		options:  options,
		logger:   logger,
	}, nil
}

// Strategy 返回当前使用的执行策略。
func (s *Service) Strategy() Kind {
	return s.strategy.Name()
}

// ScanPath 扫描目录或单文件并生成报告。
// ctx 被取消时停止派发新文件，已经开始的文件会处理完，随后返回 ctx 的错误。
func (s *Service) ScanPath(ctx context.Context, targetPath string) (model.Report, error) {
	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return model.Report{}, errors.New("scan path is empty")
	}

	walk, err := walker.New(trimmedPath, s.options.Walk)
	if err != nil {
		return model.Report{}, err
	}

	start := time.Now()
	paths, err := walk.Walk(ctx)
	if err != nil {
		return model.Report{}, err
	}

	fileCounter := counter.New(
		s.registry,
		counter.WithRoot(walk.Root()),
		counter.WithDecoder(s.decoder),
		counter.WithLogger(s.logger),
	)

	s.logger.Printf("scan: %s with %s strategy, path buffer %d", walk.Root(), s.Strategy(), s.options.Walk.Buffer)
	agg, runErr := s.strategy.Run(ctx, paths, fileCounter, s.options.ByFile)

	// 路径通道已经关闭，遍历 goroutine 已退出，此时读取失败列表是安全的。
	for _, failure := range walk.Failures() {
		agg.AddFailure(failure.Path, failure.Err)
	}
	s.logger.Printf("scan: done, %s", agg)

	if runErr != nil {
		return model.Report{}, fmt.Errorf("scan interrupted: %w", runErr)
	}

	report := agg.Report()
	report.ScannedPath = walk.Root()
	report.Elapsed = time.Since(start)
	return report, nil
}
