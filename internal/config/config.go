// Package config 负责加载 countlines 的配置。
// 优先级：命令行参数 > 环境变量（COUNTLINES_ 前缀，可来自 .env）> 配置文件 > 默认值。
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"countlines/internal/languages"
	"countlines/internal/report"
	"countlines/internal/scanner"
)

const (
	// DefaultConfigFile 是默认配置文件名（不含后缀）。
	DefaultConfigFile = ".countlines"
	// DefaultConfigType 是默认配置文件格式。
	DefaultConfigType = "yaml"
	// EnvPrefix 是环境变量前缀。
	EnvPrefix = "COUNTLINES"
)

// Config 是一次运行的完整配置。
type Config struct {
	Strategy      string                 `mapstructure:"strategy"`
	Workers       int                    `mapstructure:"workers"`
	Concurrency   int                    `mapstructure:"concurrency"`
	Format        string                 `mapstructure:"format"`
	Output        string                 `mapstructure:"output"`
	Exclude       []string               `mapstructure:"exclude"`
	MaxDepth      int                    `mapstructure:"max_depth"`
	FollowLinks   bool                   `mapstructure:"follow_links"`
	IgnoreHidden  bool                   `mapstructure:"ignore_hidden"`
	LanguagesFile string                 `mapstructure:"languages_file"`
	Languages     []languages.Definition `mapstructure:"languages"`
	Encoding      string                 `mapstructure:"encoding"`
	ByFile        bool                   `mapstructure:"by_file"`
	Verbose       bool                   `mapstructure:"verbose"`
}

// Load 从配置文件、环境变量和默认值加载配置。
// configFile 为空时在当前目录查找 .countlines.yaml，找不到不算错误。
// v 通常已经绑定了命令行参数。
func Load(v *viper.Viper, configFile string) (*Config, error) {
	// .env 只是可选的环境变量来源，不存在时忽略。
	_ = godotenv.Load()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigFile)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate 检查配置取值，所有错误都在扫描开始之前暴露。
func (c *Config) Validate() error {
	if _, err := scanner.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	if c.Concurrency <= 0 {
		return errors.New("concurrency must be greater than 0")
	}
	if c.MaxDepth < 0 {
		return errors.New("max_depth must not be negative")
	}
	return nil
}

// Grammars 汇总用户自定义语言：先是配置文件中的 languages 段，再是 languages_file。
// 任何一条定义不合法都返回错误，扫描不会开始。
func (c *Config) Grammars() ([]languages.Grammar, error) {
	definitions := append([]languages.Definition(nil), c.Languages...)
	if c.LanguagesFile != "" {
		fromFile, err := languages.LoadDefinitionsFile(c.LanguagesFile)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, fromFile...)
	}
	return languages.Grammars(definitions)
}

// setDefaults 设置默认值。
func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy", string(scanner.Parallel))
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("concurrency", scanner.DefaultConcurrency)
	v.SetDefault("format", string(report.FormatTable))
	v.SetDefault("output", "")
	v.SetDefault("exclude", []string{})
	v.SetDefault("max_depth", 0)
	v.SetDefault("follow_links", false)
	v.SetDefault("ignore_hidden", false)
	v.SetDefault("languages_file", "")
	v.SetDefault("encoding", "")
	v.SetDefault("by_file", false)
	v.SetDefault("verbose", false)
}
