package main

import (
	"os"

	"github.com/palassaha/SC2-Backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
