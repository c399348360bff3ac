package main

import (
	"os"

	"github.com/atlasdatatech/mvt/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
