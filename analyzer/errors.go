// SPDX-License-Identifier: EPL-2.0

package analyzer

import "errors"

var (
	// ErrEngineUnavailable is returned when the analyzer has no open DSP
	// engine to build its channel units with.
	ErrEngineUnavailable = errors.New("analysis engine unavailable")

	// ErrInvalidConfig is returned by Setup and Reset for a sample rate or
	// buffer size the analyzer cannot work with.
	ErrInvalidConfig = errors.New("invalid analyzer configuration")

	// ErrNotConfigured is returned by Unit.Analyze before Configure.
	ErrNotConfigured = errors.New("analysis unit not configured")

	// ErrBufferSizeMismatch is returned by Unit.Analyze for a block whose
	// length differs from the configured buffer size.
	ErrBufferSizeMismatch = errors.New("block length does not match buffer size")

	// ErrNonFiniteSample is returned by Unit.Analyze for a block holding a
	// NaN or infinite sample.
	ErrNonFiniteSample = errors.New("block contains a non-finite sample")

	// ErrChannelMismatch is reported when a block's channel count differs
	// from the configured channel count.
	ErrChannelMismatch = errors.New("block channel count does not match analyzer")

	// ErrInvalidChannel is reported for a channel index outside the
	// configured range.
	ErrInvalidChannel = errors.New("invalid channel index")
)
