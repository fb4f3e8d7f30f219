// Package cmdutil provides utilities for formatting CLI output.
package cmdutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Stdout represents Stdout
var Stdout io.Writer = os.Stdout

// Stderr represents Stderr
var Stderr io.Writer = os.Stderr

// ColoredStderr represents a color supporting writer for Stderr
var ColoredStderr io.Writer = color.Error

// ErrPrintf formats and prints the provided format string and args on stderr and
// colors the output red.
func ErrPrintf(msg string, a ...interface{}) {
	fmt.Fprintf(ColoredStderr, color.RedString(msg), a...)
}

// Printf is a wrapper to fmt.Printf that prints to cmdutil.Stdout
func Printf(msg string, a ...interface{}) {
	fmt.Fprintf(Stdout, msg, a...)
}

// Println is a wrapper to fmt.Println that prints to cmdutil.Stdout
func Println(a ...interface{}) {
	fmt.Fprintln(Stdout, a...)
}

// Print is a wrapper to fmt.Print that prints to cmdutil.Stdout
func Print(a ...interface{}) {
	fmt.Fprint(Stdout, a...)
}
