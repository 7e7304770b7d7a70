// Package main provides the zerocss CLI: it extracts css tagged templates
// from JavaScript and TypeScript sources into static stylesheets.
package main

import (
	"errors"
	"fmt"
	"os"
)

// exitError ends the process with code and no message; the command has
// already reported what went wrong
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
