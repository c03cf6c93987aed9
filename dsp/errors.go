// SPDX-License-Identifier: EPL-2.0

package dsp

import "errors"

var (
	// ErrEngineClosed is returned when an engine is used after its last
	// reference was released.
	ErrEngineClosed = errors.New("analysis engine closed")

	// ErrInvalidConfig is returned for a non-positive sample rate or a buffer
	// size that is odd or shorter than two samples.
	ErrInvalidConfig = errors.New("invalid analysis configuration")

	// ErrBlockSize is returned when a block does not match the configured
	// buffer size.
	ErrBlockSize = errors.New("block size does not match buffer size")
)
