package main

import (
	"os"

	"github.com/cwbudde/plox/cmd/plox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
