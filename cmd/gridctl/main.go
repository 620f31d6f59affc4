package main

import (
	"os"

	"github.com/agiangrant/vgrid/cmd/gridctl/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
