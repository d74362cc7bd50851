package main

import (
	"os"

	"github.com/cmadamsgit/ks-install/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
