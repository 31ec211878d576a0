package main

import (
	"os"

	"github.com/nijaru/yt-summary/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
