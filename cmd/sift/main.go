package main

import (
	"os"

	"github.com/dtrask/sift/cmd/sift/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
