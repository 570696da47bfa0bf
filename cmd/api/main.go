// Package main is the entrypoint for the Gatherly API server.
package main

import (
	"os"

	_ "time/tzdata"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
