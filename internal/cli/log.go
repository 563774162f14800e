// Package cli implements the latticetile command-line interface.
//
// The commands search tilings of built-in or user supplied puzzles, inspect
// their pieces, browse solutions interactively, serve the HTTP API and
// manage the result cache. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - solve: Search all tilings of a puzzle and print them
//   - show: Describe a puzzle's lattice and pieces, optionally as SVG
//   - puzzles: List the built-in puzzles
//   - browse: Page through solutions in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Diagnostics go
// to stderr; solutions go to stdout so they can be piped.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled lines with a centisecond clock, e.g.
// "14:32:01.45 INFO solve: Search finished elapsed=1.2s".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type loggerKey struct{}

// withLogger attaches l to ctx for the commands below the root.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the logger attached to ctx, or log.Default.
func loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// timed starts a clock and returns a func that logs msg at info level with
// the elapsed time, rounded to the millisecond, as a field.
func timed(l *log.Logger, msg string) func(keyvals ...any) {
	start := time.Now()
	return func(keyvals ...any) {
		l.Info(msg, append([]any{"elapsed", time.Since(start).Round(time.Millisecond)}, keyvals...)...)
	}
}
