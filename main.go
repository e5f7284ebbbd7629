package main

import (
	"os"

	"github.com/getlawrence/injectgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
