package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔══════════════════════════════════════════════╗
    ║   IGNETWORK  ·  mention graph & communities  ║
    ╚══════════════════════════════════════════════╝
`

var (
	mu      sync.RWMutex
	output  io.Writer = os.Stdout
	colored           = isTerminal(os.Stdout)
)

// SetOutput redirects terminal output. Colour is kept only when w is a terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	colored = isTerminal(w)
}

// DisableColor turns ANSI colour off for all subsequent output
func DisableColor() {
	mu.Lock()
	defer mu.Unlock()
	colored = false
}

func out() (io.Writer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return output, colored
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		if _, ok := out(); !ok {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	w, _ := out()
	fmt.Fprint(w, Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	w, _ := out()
	if len(args) > 0 {
		fmt.Fprintln(w, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(w, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	w, _ := out()
	fmt.Fprintln(w, Green(msg))
}

// PrintInfo prints a label and value
func PrintInfo(label string, value string) {
	w, _ := out()
	fmt.Fprintf(w, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	w, _ := out()
	if len(args) > 0 {
		fmt.Fprintln(w, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(w, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	w, _ := out()
	fmt.Fprintln(w, Magenta(msg))
}
