// SPDX-License-Identifier: EPL-2.0

package analyzer

import (
	"io"
	"log/slog"

	"github.com/ik5/audanalyzer/dsp"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the structured logger diagnostics are written to. The
// default logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDiagnosticHandler registers a callback for every diagnostic.
func WithDiagnosticHandler(h DiagnosticHandler) Option {
	return func(a *Analyzer) { a.onDiagnostic = h }
}

// WithExtractorFactory replaces the engine's native descriptor graph, for
// instance with a deterministic implementation in tests. The engine is still
// required and still reference counted.
func WithExtractorFactory(f dsp.ExtractorFactory) Option {
	return func(a *Analyzer) { a.factory = f }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
