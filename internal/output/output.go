// Package output renders user-facing console messages. It is distinct from
// logrus logging: logs are for diagnostics, a Sink is the tool's actual
// interface to the person running it.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Sink receives user-facing messages. Implementations must be safe to call
// from a single goroutine; the CLI never writes from multiple goroutines.
type Sink interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Error(format string, args ...interface{})
	Highlight(format string, args ...interface{})
}

// ConsoleSink writes colored messages to a terminal, falling back to plain
// text when the destination is not a TTY or colors are disabled.
type ConsoleSink struct {
	out io.Writer
	err io.Writer

	info      *color.Color
	success   *color.Color
	warning   *color.Color
	errc      *color.Color
	highlight *color.Color
}

// NewConsoleSink creates a sink writing to stdout/stderr. Color is enabled
// only when stdout is a terminal.
func NewConsoleSink() *ConsoleSink {
	s := NewConsoleSinkTo(os.Stdout, os.Stderr)
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return s
}

// NewConsoleSinkTo creates a sink with explicit writers, mainly for tests.
func NewConsoleSinkTo(out, err io.Writer) *ConsoleSink {
	return &ConsoleSink{
		out:       out,
		err:       err,
		info:      color.New(color.FgCyan),
		success:   color.New(color.FgGreen),
		warning:   color.New(color.FgYellow),
		errc:      color.New(color.FgRed, color.Bold),
		highlight: color.New(color.FgWhite, color.Bold),
	}
}

func (s *ConsoleSink) Info(format string, args ...interface{}) {
	s.info.Fprintf(s.out, format+"\n", args...)
}

func (s *ConsoleSink) Success(format string, args ...interface{}) {
	s.success.Fprintf(s.out, "✓ "+format+"\n", args...)
}

func (s *ConsoleSink) Warning(format string, args ...interface{}) {
	s.warning.Fprintf(s.err, "⚠ "+format+"\n", args...)
}

func (s *ConsoleSink) Error(format string, args ...interface{}) {
	s.errc.Fprintf(s.err, "✗ "+format+"\n", args...)
}

func (s *ConsoleSink) Highlight(format string, args ...interface{}) {
	s.highlight.Fprintf(s.out, format+"\n", args...)
}

// NopSink discards everything. Used by library callers and quiet mode.
type NopSink struct{}

func (NopSink) Info(string, ...interface{})      {}
func (NopSink) Success(string, ...interface{})   {}
func (NopSink) Warning(string, ...interface{})   {}
func (NopSink) Error(string, ...interface{})     {}
func (NopSink) Highlight(string, ...interface{}) {}

var _ Sink = (*ConsoleSink)(nil)
var _ Sink = NopSink{}

// Plain writes an uncolored line to the sink's primary stream.
func (s *ConsoleSink) Plain(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
