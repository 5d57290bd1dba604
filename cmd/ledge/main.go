package main

import (
	"os"

	"github.com/ledge-dev/ledge/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
