package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// colorSupport decides whether ANSI colors may be emitted on f.
// Order matters: NO_COLOR wins over everything.
func colorSupport(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// Render writes a human-readable form of the diagnostic to w. When w is a
// color-capable terminal the code is highlighted.
func Render(w io.Writer, err error) {
	de, ok := err.(*DiagnosticError)
	if !ok {
		fmt.Fprintln(w, err)
		return
	}

	color := false
	if f, ok := w.(*os.File); ok {
		color = colorSupport(f)
	}

	if color {
		fmt.Fprintf(w, "%s%s[%s]%s ", ansiBold, ansiRed, de.Code, ansiReset)
	} else {
		fmt.Fprintf(w, "[%s] ", de.Code)
	}
	if de.File != "" {
		fmt.Fprintf(w, "%s:", de.File)
	}
	if de.Line > 0 {
		fmt.Fprintf(w, "%d:%d: ", de.Line, de.Column)
	}
	fmt.Fprintln(w, de.Message)
}
