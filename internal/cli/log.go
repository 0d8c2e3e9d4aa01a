// Package cli implements the floatpos command-line interface.
//
// Commands read scene files (TOML or JSON, see pkg/scene), run their jobs
// through a pipeline.Runner and report the results. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - compute: Position every job of a scene and print a table or JSON
//   - preview: Draw the viewport and the placed elements in the terminal
//   - play: Move the reference interactively and watch the result follow
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is attached to the command context by the root command.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
