package main

import (
	"os"

	"github.com/naab-lang/naab/cmd/naab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
