package main

import (
	"os"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
