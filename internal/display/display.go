package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes user-facing output. Status lines carry an icon; the *Text
// helpers only style a fragment for embedding in a larger line.
// Write errors are ignored.
type Printer interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)

	Success(msg string)
	Error(msg string)
	Warning(msg string)
	Info(msg string)

	Successf(format string, a ...any)
	Errorf(format string, a ...any)
	Warningf(format string, a ...any)
	Infof(format string, a ...any)

	// Header prints a bold title underlined to its width
	Header(title string)
	// Field prints an indented "label: value" line
	Field(label string, value any)

	Bold(text string) string
	Faint(text string) string
	SuccessText(text string) string
	ErrorText(text string) string
	WarningText(text string) string
	InfoText(text string) string

	// Writer exposes the destination for renderers such as Heatmap
	Writer() io.Writer
}

type style func(a ...any) string

type writer struct {
	out     io.Writer
	success style
	failure style
	warning style
	info    style
	bold    style
	faint   style
}

// New creates a Printer that writes to w
func New(w io.Writer) Printer {
	return &writer{
		out:     w,
		success: color.New(color.FgGreen).SprintFunc(),
		failure: color.New(color.FgRed).SprintFunc(),
		warning: color.New(color.FgYellow).SprintFunc(),
		info:    color.New(color.FgCyan).SprintFunc(),
		bold:    color.New(color.Bold).SprintFunc(),
		faint:   color.New(color.Faint).SprintFunc(),
	}
}

// NewStderr creates a Printer for status messages
func NewStderr() Printer {
	return New(os.Stderr)
}

func (w *writer) Writer() io.Writer { return w.out }

func (w *writer) Print(a ...any) {
	_, _ = fmt.Fprint(w.out, a...)
}

func (w *writer) Println(a ...any) {
	_, _ = fmt.Fprintln(w.out, a...)
}

func (w *writer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(w.out, format, a...)
}

func (w *writer) status(s style, icon, msg string) {
	_, _ = fmt.Fprintf(w.out, "%s %s\n", s(icon), msg)
}

func (w *writer) Success(msg string) { w.status(w.success, "✓", msg) }
func (w *writer) Error(msg string)   { w.status(w.failure, "✗", msg) }
func (w *writer) Warning(msg string) { w.status(w.warning, "⚠", msg) }
func (w *writer) Info(msg string)    { w.status(w.info, "ℹ", msg) }

func (w *writer) Successf(format string, a ...any) { w.Success(fmt.Sprintf(format, a...)) }
func (w *writer) Errorf(format string, a ...any)   { w.Error(fmt.Sprintf(format, a...)) }
func (w *writer) Warningf(format string, a ...any) { w.Warning(fmt.Sprintf(format, a...)) }
func (w *writer) Infof(format string, a ...any)    { w.Info(fmt.Sprintf(format, a...)) }

func (w *writer) Header(title string) {
	_, _ = fmt.Fprintf(w.out, "%s\n%s\n", w.bold(title), Rule(len([]rune(title))))
}

func (w *writer) Field(label string, value any) {
	_, _ = fmt.Fprintf(w.out, "   %s %v\n", w.faint(label+":"), value)
}

func (w *writer) Bold(text string) string        { return w.bold(text) }
func (w *writer) Faint(text string) string       { return w.faint(text) }
func (w *writer) SuccessText(text string) string { return w.success(text) }
func (w *writer) ErrorText(text string) string   { return w.failure(text) }
func (w *writer) WarningText(text string) string { return w.warning(text) }
func (w *writer) InfoText(text string) string    { return w.info(text) }
