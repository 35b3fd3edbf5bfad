// The main package for the cinefinder executable.
package main

import (
	"github.com/Remy-AbdoulMazidou/CineFinder---Projet-Data-Engineering/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
