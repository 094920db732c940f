package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	green = color.New(color.FgGreen)
	cyan  = color.New(color.FgCyan)
	red   = color.New(color.FgRed, color.Bold)
)

func success(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ "+format+"\n", a...)
}

func heading(w io.Writer, format string, a ...any) {
	cyan.Fprintf(w, format+"\n", a...)
}

// failure prints the title in red with the cause and returns the wrapped
// error for cobra
func failure(w io.Writer, title string, err error) error {
	red.Fprintf(w, "%s\n", title)
	fmt.Fprintf(w, "%v\n", err)
	return fmt.Errorf("%s: %w", title, err)
}
