package main

import (
	"os"

	"github.com/jobhuntbuddy/jobhunt-buddy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
