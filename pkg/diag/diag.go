// Package diag defines the ordered diagnostic events returned alongside
// tables by the loader and deduplicator. Recoverable problems (failed casts,
// unparseable dates, removed duplicates) are reported here instead of
// aborting, so callers can inspect or log them without capturing a stream.
package diag

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Level classifies a diagnostic event.
type Level string

// Diagnostic severities.
const (
	Info Level = "info"
	Warn Level = "warn"
)

// Diagnostic is a single non-fatal event tied to a pipeline stage.
type Diagnostic struct {
	Level   Level
	Column  string // affected column, if any
	Message string
	Err     error // underlying cause, if any
}

// Infof creates an informational diagnostic.
func Infof(format string, args ...any) Diagnostic {
	return Diagnostic{Level: Info, Message: fmt.Sprintf(format, args...)}
}

// Warnf creates a warning diagnostic for the given column.
func Warnf(column string, err error, format string, args ...any) Diagnostic {
	return Diagnostic{Level: Warn, Column: column, Message: fmt.Sprintf(format, args...), Err: err}
}

// String renders the diagnostic as a single line.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("[%s] %s", d.Level, d.Message)
	if d.Err != nil {
		s += ": " + d.Err.Error()
	}
	return s
}

// Log emits the diagnostic through a zerolog logger at its level.
func (d Diagnostic) Log(logger *zerolog.Logger) {
	var event *zerolog.Event
	switch d.Level {
	case Warn:
		event = logger.Warn()
	default:
		event = logger.Info()
	}
	if d.Column != "" {
		event = event.Str("column", d.Column)
	}
	if d.Err != nil {
		event = event.Err(d.Err)
	}
	event.Msg(d.Message)
}
