// Command scholia is a citation-grounded research assistant: it
// fetches papers, indexes them in a local vector store and answers
// questions with inline citations.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/scholia-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
