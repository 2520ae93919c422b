// Package diag backs the compiler's diagnostics with structured
// logging: the unknown-node escape hatch is logged at Debug, while a
// fatal error is logged at Error right before Compile returns it to the
// caller. Embedded (recoverable) errors are not logged here; Compile
// collects them in its returned diagnostics instead.
// Logging never changes control flow — it is purely for operators
// inspecting a compile run, the same role zerolog plays in the rest of
// the retrieved pack.
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"vexel/internal/token"
)

// Logger wraps a zerolog.Logger and exposes named methods for the
// specific events a compilation logs.
type Logger struct {
	zerolog.Logger
}

// New returns a Logger writing human-readable console output to w.
func New(w io.Writer) *Logger {
	return &Logger{zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).With().Timestamp().Logger()}
}

// Discard returns a Logger that drops everything — the default for
// library callers who haven't opted into diagnostics.
func Discard() *Logger {
	return &Logger{zerolog.New(io.Discard)}
}

// Default is a console logger writing to stderr, used by cmd/vexelc.
func Default() *Logger {
	return New(os.Stderr)
}

// UnknownNode logs, at Debug level, that lowering encountered an AST
// node kind it doesn't recognize. Spec §6.1 requires this to be a
// forward-compatibility escape hatch, not a silent corruption path: no
// bytecode is emitted for the node, and compilation continues.
func (l *Logger) UnknownNode(kind string, span token.Span) {
	l.Debug().Str("kind", kind).Str("span", span.String()).Msg("unhandled AST node kind")
}

// Fatal logs a compilation-fatal error immediately before it is
// returned to the caller.
func (l *Logger) Fatal(err error) {
	l.Error().Err(err).Msg("compilation failed")
}
