// Package main implements the cardchain command, which generates
// personalized Christmas cards through a two-stage language model pipeline
// and serves the card form over HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
