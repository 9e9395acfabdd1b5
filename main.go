// Package main points at the sicxe command line decoder.
//
// For the CLI, use: go run ./cmd/sicxe -h
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "sicxe: run 'go run ./cmd/sicxe -h' for the decoder CLI")
	os.Exit(2)
}
