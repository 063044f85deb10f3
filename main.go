// The main package for the crawlcheck executable.
package main

import (
	"github.com/mizatrix/crawlability-checker/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
