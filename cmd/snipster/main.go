package main

import (
	"fmt"
	"os"

	"github.com/snipsterlab/snipster/internal/cli/command"
)

func main() {
	if err := command.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
