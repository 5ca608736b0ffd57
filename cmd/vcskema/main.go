package main

import (
	"os"

	"github.com/reoring/vcskema/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
