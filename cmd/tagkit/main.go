package main

import (
	"os"

	"github.com/n0roo/tag-kit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
