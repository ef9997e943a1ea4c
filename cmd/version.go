package cmd

import (
	"runtime"

	"github.com/spf13/cobra"

	"countlines/internal/languages"
	"countlines/internal/scanner"
)

// BuildInfo 是 main 包注入的构建信息。
type BuildInfo struct {
	Version string
	Commit  string
}

// newVersionCmd 创建 version 子命令，除版本号外还输出内置语言数量和默认执行策略，
// 便于确认二进制里带的语言表。
// 命令示例：countlines version
func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本号与内置语言信息",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 不读取用户配置，只统计内置语言。
			registry, err := languages.NewRegistry()
			if err != nil {
				return err
			}

			cmd.Printf("countlines %s (commit %s, %s)\n", info.Version, info.Commit, runtime.Version())
			cmd.Printf("built-in languages: %d\n", len(registry.Languages()))
			cmd.Printf("default strategy: %s\n", scanner.Parallel)
			return nil
		},
	}
}
