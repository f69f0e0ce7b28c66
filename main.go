package main

import (
	"os"

	"github.com/dscatalog/dscat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
