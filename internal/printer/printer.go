// Package printer writes colored user-facing output of the cppkg command.
// Diagnostics go through slog; this package is for results.
package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// Printer writes to Out and Err. The zero value writes to stdout and stderr.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// New returns a Printer on w for both streams.
func New(w io.Writer) *Printer {
	return &Printer{Out: w, Err: w}
}

func (p *Printer) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p *Printer) err() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}

// Success prints a green line prefixed with a check mark.
func (p *Printer) Success(format string, a ...any) {
	green.Fprintf(p.out(), "✓ %s\n", fmt.Sprintf(format, a...))
}

// Warning prints a yellow line to Err.
func (p *Printer) Warning(format string, a ...any) {
	yellow.Fprintf(p.err(), "⚠ %s\n", fmt.Sprintf(format, a...))
}

// Step prints a cyan progress line.
func (p *Printer) Step(format string, a ...any) {
	cyan.Fprintf(p.out(), "→ %s\n", fmt.Sprintf(format, a...))
}

// Header prints a bold line.
func (p *Printer) Header(format string, a ...any) {
	bold.Fprintf(p.out(), "%s\n", fmt.Sprintf(format, a...))
}

// Field prints an indented "key: value" line.
func (p *Printer) Field(key string, value any) {
	fmt.Fprintf(p.out(), "  %s: %v\n", key, value)
}

// Println prints a plain line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out(), a...)
}

// Error prints a red title, an explanation and numbered suggestions to Err
// and returns an error carrying the title.
func (p *Printer) Error(title, explanation string, suggestions ...string) error {
	w := p.err()
	red.Fprintf(w, "%s\n", title)
	if explanation != "" {
		fmt.Fprintf(w, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(w, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
	}
	return fmt.Errorf("%s", title)
}
