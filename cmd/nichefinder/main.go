package main

import (
	"os"

	"github.com/gecko435/affiliate-niche-finder-app/cmd/nichefinder/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
