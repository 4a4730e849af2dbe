package main

import (
	"os"
)

func main() {
	if err := newRootCommand(defaultManager()).Execute(); err != nil {
		os.Exit(1)
	}
}
