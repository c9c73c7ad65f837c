package main

import (
	"os"

	"github.com/olivex/fxrisk/cmd/fxrisk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
