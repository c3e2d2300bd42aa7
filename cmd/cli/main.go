package main

import (
	"os"

	"github.com/mephub/mephub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
