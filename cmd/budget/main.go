// Package main is the entry point for the budget CLI.
package main

import (
	"os"

	"budget-tracker/cmd/budget/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
