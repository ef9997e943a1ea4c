package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newLanguageCmd 创建 language 子命令。
// 命令用于展示当前生效的语言（内置 + 用户自定义）以及对应的后缀和文件名。
func newLanguageCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "language",
		Short: "展示已支持语言及匹配规则",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, registry, err := global.load()
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "LANGUAGE\tEXTENSIONS\tFILENAMES\tSOURCE"); err != nil {
				return err
			}

			for _, item := range registry.Languages() {
				source := "builtin"
				if item.UserDefined {
					source = "user"
				}
				if _, err := fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					item.Name,
					strings.Join(item.Extensions, ", "),
					strings.Join(item.Filenames, ", "),
					source,
				); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
