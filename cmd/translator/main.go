package main

import (
	"fmt"
	"os"

	"github.com/dextermorgenk/go-doc-translator/internal/cli"
)

// 构建时通过 -ldflags 注入
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	rootCmd := cli.NewRootCommand(version, commit, buildDate)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
