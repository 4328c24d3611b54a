// Command minigit is a small local version control system.
package main

import (
	"os"

	"github.com/eyue1777/minigit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
