// Command tabml trains and evaluates classical ML models on a CSV file.
package main

import (
	"os"

	"github.com/YuminosukeSato/tabml/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
