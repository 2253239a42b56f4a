// Package renderlog provides the minimal leveled logging interface the
// frame composer uses to report non-fatal diagnostics: a glyph skipped
// after its outline or bitmap failed, a clip drawing that failed to parse
// or rasterize. The core itself performs
// no I/O and holds no logger of its own; callers inject one, or rely on
// the package-level Default.
package renderlog

import (
	"log"
	"os"
)

// Logger is the leveled logging surface the rendering packages depend on.
// A nil Logger is never passed down; callers that don't want logging use
// Discard.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// StdLogger implements Logger on top of the standard library's log.Logger
// directly rather than a structured-logging framework.
type StdLogger struct {
	l       *log.Logger
	verbose bool
}

// New returns a StdLogger writing to w. Debugf is a no-op unless verbose
// is true; Warnf always writes.
func New(w *log.Logger, verbose bool) *StdLogger {
	return &StdLogger{l: w, verbose: verbose}
}

func (s *StdLogger) Debugf(format string, args ...any) {
	if s == nil || !s.verbose {
		return
	}
	s.l.Printf("[debug] "+format, args...)
}

func (s *StdLogger) Warnf(format string, args ...any) {
	if s == nil {
		return
	}
	s.l.Printf("[warn] "+format, args...)
}

// Default logs warnings to stderr and discards debug output; it is the
// fallback used when the caller supplies no Logger.
var Default Logger = New(log.New(os.Stderr, "asscore: ", 0), false)

type discard struct{}

func (discard) Debugf(string, ...any) {}
func (discard) Warnf(string, ...any)  {}

// Discard is a Logger that drops everything, for callers that want the
// core fully silent (e.g. most unit tests).
var Discard Logger = discard{}
