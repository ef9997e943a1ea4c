// main.go 是 countlines 的程序入口，只负责注入构建信息并执行根命令。
package main

import (
	"fmt"
	"os"

	"countlines/cmd"
)

// 以下变量在发布时通过 -ldflags 注入，例如：
//
//	go build -ldflags "-X main.version=v1.2.0 -X main.commit=$(git rev-parse --short HEAD)"
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := cmd.Execute(cmd.BuildInfo{Version: version, Commit: commit}); err != nil {
		fmt.Fprintf(os.Stderr, "countlines error: %v\n", err)
		os.Exit(1)
	}
}
