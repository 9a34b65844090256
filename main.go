package main

import (
	"os"

	"github.com/genomeviz/exonview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
