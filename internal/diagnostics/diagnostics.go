// Package diagnostics implements the side-channel error reporting contract
// from the front end's error handling design: one structured line per
// error, independent of the short string an operation returns to its
// caller.
package diagnostics

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/diazo-lang/diazo/internal/errs"
)

// Diagnostic is one reportable event: the structured error and, for a
// failure inside an import, the imported file's name. A sink builds the
// human-readable message from these fields.
type Diagnostic struct {
	Err  *errs.Error
	File string // set for diagnostics raised while resolving an import
}

// Sink receives diagnostics as they occur. The lexer and parser hold a Sink
// rather than a concrete logger so hosts can redirect, buffer, or silence
// diagnostics without touching front-end code.
type Sink interface {
	Report(d Diagnostic)
}

// Noop discards every diagnostic. Useful in tests that only care about the
// returned error value.
type Noop struct{}

// Report implements Sink.
func (Noop) Report(Diagnostic) {}

// ZerologSink formats diagnostics through a zerolog.Logger, emitting the
// exact "Issue found at line L, word W, token:T" message the error-handling
// design mandates as the log line, with L/W/T attached as structured
// fields for consumers that parse the side channel instead of scraping it.
type ZerologSink struct {
	Logger zerolog.Logger
}

// NewZerologSink returns a ZerologSink writing to os.Stderr in console
// format, matching the original implementation's eprintln! side channel.
func NewZerologSink() *ZerologSink {
	return &ZerologSink{Logger: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()}
}

// Report implements Sink.
func (s *ZerologSink) Report(d Diagnostic) {
	event := s.Logger.Error().
		Int("line", d.Err.Position.Line).
		Int("word", d.Err.Position.Word).
		Str("token", d.Err.Token).
		Str("kind", d.Err.Kind.String())

	if d.File != "" {
		event = event.Str("imported_file", d.File)
		event.Msgf("Issue in imported file: %s. Issue found at line %d, word %d, token:%s",
			d.File, d.Err.Position.Line, d.Err.Position.Word, d.Err.Token)
		return
	}
	event.Msgf("Issue found at line %d, word %d, token:%s",
		d.Err.Position.Line, d.Err.Position.Word, d.Err.Token)
}
