// The main package for the showcase executable.
package main

import (
	"github.com/JakeFAU/showcase-publisher/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
