package main

import (
	"os"
)

var (
	version = "0.1.0"
	commit  = "unknown"
)

func main() {
	if err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
