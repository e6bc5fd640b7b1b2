// Package output provides formatted console output for stagebench.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/AndreyAkinshin/stagebench/internal/model"
)

// Writer handles console output formatting.
// It is safe for concurrent use, including the setters.
type Writer struct {
	mu    sync.Mutex // serializes writes
	out   io.Writer
	err   io.Writer
	color atomic.Bool
	quiet atomic.Bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return NewWithWriters(os.Stdout, os.Stderr, isTerminal())
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	w := &Writer{out: out, err: err}
	w.color.Store(color)
	return w
}

// Discard returns a Writer that drops everything.
func Discard() *Writer {
	return NewWithWriters(io.Discard, io.Discard, false)
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet.Store(quiet)
}

// SetColor forces color on or off.
func (w *Writer) SetColor(color bool) {
	w.color.Store(color)
}

// Quiet reports whether informational output is suppressed.
func (w *Writer) Quiet() bool {
	return w.quiet.Load()
}

// Color reports whether ANSI colors are emitted.
func (w *Writer) Color() bool {
	return w.color.Load()
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	w.Print(format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	w.Error(format+"\n", args...)
}

// Block writes a preformatted block to stdout verbatim.
func (w *Writer) Block(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	io.WriteString(w.out, text)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet.Load() {
		return
	}
	w.Println(format, args...)
}

// Warning prints a warning with the "Warning:" prefix to stdout.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w.Println("%s %s", w.paint(yellow, "Warning:"), msg)
}

// ErrorPrefix prints an error message with the stagebench prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color.Load() {
		w.Errorln("%sstagebench:%s %s", red, reset, msg)
	} else {
		w.Errorln("stagebench: %s", msg)
	}
}

// Abort prints the message ending a run because a stage failed.
func (w *Writer) Abort(stage string, cause error) {
	w.Println("%s", w.AbortMessage(stage, cause))
}

// AbortMessage formats the abort message for a failed stage.
func (w *Writer) AbortMessage(stage string, cause error) string {
	return fmt.Sprintf("%s Stage %s failed with message:\n%v\n\nAborting.",
		w.paint(red, "Failed."), w.GrayQuoted(stage), cause)
}

// Gray dims a value.
func (w *Writer) Gray(v interface{}) string {
	return w.paint(gray, fmt.Sprint(v))
}

// GrayQuoted dims a value wrapped in single quotes.
func (w *Writer) GrayQuoted(v interface{}) string {
	return w.paint(gray, fmt.Sprintf("'%v'", v))
}

// CyanQuoted highlights a file name wrapped in single quotes.
func (w *Writer) CyanQuoted(v interface{}) string {
	return w.paint(cyan, fmt.Sprintf("'%v'", v))
}

// Verdict colors the verdict of a test.
func (w *Writer) Verdict(state model.SuccessState) string {
	switch state {
	case model.StateSuccess:
		return w.paint(green, state.Verdict())
	case model.StateMixed:
		return w.paint(yellow, state.Verdict())
	default:
		return w.paint(red, state.Verdict())
	}
}

// RunMark returns a colored S or F for a single run of a repeated test.
func (w *Writer) RunMark(completed bool) string {
	if completed {
		return w.paint(green, "S")
	}
	return w.paint(red, "F")
}

// ValidationSuccess prints a validation success message.
func (w *Writer) ValidationSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color.Load() {
		w.Println("%s%s%s %s", green, "✓", reset, msg)
	} else {
		w.Println("%s", msg)
	}
}

func (w *Writer) paint(code, text string) string {
	if !w.color.Load() {
		return text
	}
	return code + text + reset
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	gray   = "\033[90m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)
