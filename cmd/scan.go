package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"countlines/internal/report"
	"countlines/internal/scanner"
	"countlines/internal/walker"
)

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	countlines scan .
//	countlines scan ./project --strategy cooperative --format json --output result.json
//	countlines scan . --exclude 'vendor/**' --exclude '**/*.min.js' --max-depth 3
func newScanCmd(global *globalOptions) *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描目录或文件并输出按语言分组的行数统计",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, registry, err := global.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			kind, err := scanner.ParseStrategy(cfg.Strategy)
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			service, err := scanner.NewService(registry, scanner.Options{
				Strategy:    kind,
				Workers:     cfg.Workers,
				Concurrency: cfg.Concurrency,
				Walk: walker.Options{
					Exclude:      cfg.Exclude,
					MaxDepth:     cfg.MaxDepth,
					FollowLinks:  cfg.FollowLinks,
					IgnoreHidden: cfg.IgnoreHidden,
				},
				Encoding: cfg.Encoding,
				ByFile:   cfg.ByFile,
				Logger:   newLogger(cmd.ErrOrStderr(), cfg.Verbose),
			})
			if err != nil {
				return err
			}

			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			// Ctrl+C 只停止派发新文件，已在处理的文件会完成。
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, err := service.ScanPath(ctx, target)
			if err != nil {
				return err
			}

			if err := report.Write(cmd.OutOrStdout(), format, result); err != nil {
				return err
			}

			outputPath := strings.TrimSpace(cfg.Output)
			if outputPath == "" {
				return nil
			}
			if err := report.WriteFile(outputPath, format, result); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "report exported to %s\n", outputPath)
			return nil
		},
	}

	flags := scanCmd.Flags()
	flags.String("strategy", string(scanner.Parallel), "执行策略: sequential、cooperative 或 parallel")
	flags.Int("workers", runtime.NumCPU(), "parallel 策略的 worker 数量")
	flags.Int("concurrency", scanner.DefaultConcurrency, "cooperative 策略同时在途的文件上限")
	flags.String("format", string(report.FormatTable), "输出格式: table、json、yaml 或 kv")
	flags.String("output", "", "导出文件路径，table 格式导出为 JSON")
	flags.StringSlice("exclude", nil, "排除的 glob（可重复或逗号分隔），相对路径相对扫描根目录")
	flags.Int("max-depth", 0, "最大遍历深度，0 表示不限制")
	flags.Bool("follow-links", false, "跟随符号链接")
	flags.Bool("ignore-hidden", false, "跳过以 . 开头的文件和目录")
	flags.String("encoding", "", "源文件编码（WHATWG 标签），默认 UTF-8")
	flags.Bool("by-file", false, "输出文件级明细")

	settings := global.settings
	mustBind(settings, "strategy", flags.Lookup("strategy"))
	mustBind(settings, "workers", flags.Lookup("workers"))
	mustBind(settings, "concurrency", flags.Lookup("concurrency"))
	mustBind(settings, "format", flags.Lookup("format"))
	mustBind(settings, "output", flags.Lookup("output"))
	mustBind(settings, "exclude", flags.Lookup("exclude"))
	mustBind(settings, "max_depth", flags.Lookup("max-depth"))
	mustBind(settings, "follow_links", flags.Lookup("follow-links"))
	mustBind(settings, "ignore_hidden", flags.Lookup("ignore-hidden"))
	mustBind(settings, "encoding", flags.Lookup("encoding"))
	mustBind(settings, "by_file", flags.Lookup("by-file"))

	return scanCmd
}
