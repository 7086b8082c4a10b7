package main

import (
	"os"

	"github.com/ssargent/keydeck/cmd/keydeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
