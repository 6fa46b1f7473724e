// Package main implements the tzmeet CLI: convert times between zones, watch
// world clocks and find meeting slots that fit everyone's business hours.
package main

import (
	"fmt"
	"os"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
