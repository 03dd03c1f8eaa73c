// FILE: eslogger/src/cmd/eslogger/output.go
package main

import (
	"fmt"
	"io"
	"os"
)

// console carries CLI messages that are not log entries. Quiet mode
// silences them; fatal errors are always shown.
type console struct {
	quiet  bool
	stdout io.Writer
	stderr io.Writer
}

var out = &console{stdout: os.Stdout, stderr: os.Stderr}

// InitOutputHandler sets quiet mode for CLI messages.
func InitOutputHandler(quiet bool) {
	out.quiet = quiet
}

func (c *console) printf(w io.Writer, format string, args ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}

// Print writes a status message to stdout.
func Print(format string, args ...any) {
	out.printf(out.stdout, format, args...)
}

// Error writes a non-fatal problem to stderr.
func Error(format string, args ...any) {
	out.printf(out.stderr, format, args...)
}

// FatalError writes to stderr regardless of quiet mode and exits with code.
func FatalError(code int, format string, args ...any) {
	fmt.Fprintf(out.stderr, format, args...)
	os.Exit(code)
}
