// Package version provides ptee's version string, per the supplemented
// --version flag.
package version

import (
	"fmt"
	"os"
)

const (
	// Name of the program.
	Name string = "ptee"
	// Version of the program.
	Version string = "1.0.0"
)

// String returns a plain text representation of the version information.
func String() string {
	return fmt.Sprintf("%s %s", Name, Version)
}

// Print writes the version string to stdout.
func Print() {
	fmt.Println(String())
}

// PrintAndExit prints the program version and exits 0, per --help/--version
// conventions.
func PrintAndExit() {
	Print()
	os.Exit(0)
}
