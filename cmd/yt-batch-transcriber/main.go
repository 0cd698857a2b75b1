package main

import (
	"fmt"
	"os"

	"yt-batch-transcriber/internal/cli"
)

// version is set by the release build via -ldflags.
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
