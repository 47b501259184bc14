package main

import (
	"fmt"
	"os"

	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mkoctl:", err)
		os.Exit(1)
	}
}
