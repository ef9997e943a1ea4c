// Package cmd 提供 countlines 的命令行入口与子命令编排。
package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"countlines/internal/config"
	"countlines/internal/languages"
)

// globalOptions 存放所有子命令共享的参数。
type globalOptions struct {
	configFile string
	settings   *viper.Viper
}

// Execute 组装根命令并执行。
// 构建信息由 main 包注入，便于在 CI/CD 中打包不同版本。
func Execute(info BuildInfo) error {
	rootCmd := newRootCmd(info)
	return rootCmd.Execute()
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(info BuildInfo) *cobra.Command {
	options := &globalOptions{settings: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "countlines",
		Short: "按语言统计代码行、注释行、空行与非法行",
		Long: "countlines 基于每种语言的注释/字符串词法规则逐行分类，\n" +
			"支持顺序、协作并发、并行三种执行策略，输出表格、JSON、YAML 或 key=value。",
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.configFile, "config", "", "配置文件路径，默认 ./.countlines.yaml")
	flags.String("languages", "", "用户自定义语言文件（json/yaml/toml），同后缀时覆盖内置语言")
	flags.BoolP("verbose", "v", false, "输出扫描日志到 stderr")
	mustBind(options.settings, "languages_file", flags.Lookup("languages"))
	mustBind(options.settings, "verbose", flags.Lookup("verbose"))

	rootCmd.AddCommand(newVersionCmd(info))
	rootCmd.AddCommand(newLanguageCmd(options))
	rootCmd.AddCommand(newScanCmd(options))

	return rootCmd
}

// load 读取配置并构建语言注册中心。
// 用户自定义语言不合法时直接返回错误，不会进入扫描阶段。
func (o *globalOptions) load() (*config.Config, *languages.Registry, error) {
	cfg, err := config.Load(o.settings, o.configFile)
	if err != nil {
		return nil, nil, err
	}

	grammars, err := cfg.Grammars()
	if err != nil {
		return nil, nil, err
	}
	registry, err := languages.NewRegistry(grammars...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, registry, nil
}

// newLogger 根据 verbose 决定日志去向，开启时写入命令的 stderr。
func newLogger(writer io.Writer, verbose bool) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(writer, "countlines: ", log.LstdFlags)
}

// mustBind 把 flag 绑定到 viper key，绑定失败属于编程错误。
func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
	}
}
