package main

import (
	"os"

	"github.com/rocketscienceinc/tictactoe-engine/cmd/tictactoe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
