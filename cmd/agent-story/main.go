package main

import (
	"os"

	"github.com/kimmyTSUI/agent-story/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
