// Command nopx reports px lengths in style sheets.
//
// Usage:
//
//	nopx [flags] <file|dir>...
//
// Directories are searched for .css, .less, .scss and .wxss files. The exit
// status is 0 when nothing is reported, 2 when a warning with error severity
// is reported, and 1 when linting could not be completed.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintln(stderr, newStyles(stderr).Error.Render("Error: ")+exitErr.Err.Error())
		}
		return exitErr.Code
	}
	fmt.Fprintln(stderr, newStyles(stderr).Error.Render("Error: ")+err.Error())
	return ExitFailure
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
