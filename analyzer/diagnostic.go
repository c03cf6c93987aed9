// SPDX-License-Identifier: EPL-2.0

package analyzer

import (
	"context"
	"log/slog"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// KindConfigMismatch: the block did not match the configuration and was
	// skipped. Previous values stay visible.
	KindConfigMismatch Kind = iota
	// KindInvalidIndex: a channel index was out of range and a zero value
	// was returned.
	KindInvalidIndex
	// KindCoerced: a configuration value was replaced by a usable one.
	KindCoerced
	// KindEngineUnavailable: the DSP engine could not be used.
	KindEngineUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindConfigMismatch:
		return "config_mismatch"
	case KindInvalidIndex:
		return "invalid_index"
	case KindCoerced:
		return "coerced"
	case KindEngineUnavailable:
		return "engine_unavailable"
	default:
		return "unknown"
	}
}

// Diagnostic describes a condition the analyzer degraded around instead of
// failing.
type Diagnostic struct {
	Kind    Kind
	Op      string // analyzer method that raised it
	Channel int    // -1 when not channel specific
	Err     error
}

// DiagnosticHandler receives every diagnostic synchronously on the calling
// goroutine.
type DiagnosticHandler func(Diagnostic)

func (a *Analyzer) report(kind Kind, op string, channel int, err error) {
	if a.onDiagnostic != nil {
		a.onDiagnostic(Diagnostic{Kind: kind, Op: op, Channel: channel, Err: err})
	}
	a.logger.LogAttrs(context.Background(), slog.LevelWarn, "analyzer: "+err.Error(),
		slog.String("op", op),
		slog.String("kind", kind.String()),
		slog.Int("channel", channel),
	)
}
