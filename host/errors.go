// SPDX-License-Identifier: EPL-2.0

package host

import "errors"

var (
	// ErrNoInput is returned by Execute when no block is connected.
	ErrNoInput = errors.New("no input block")

	// ErrOddBufferSize is returned by Execute for a block with an odd number
	// of frames. The previous outputs are kept.
	ErrOddBufferSize = errors.New("buffer size must be even")

	// ErrUnknownPulse is returned by Pulse for a name that is not a pulse
	// parameter.
	ErrUnknownPulse = errors.New("unknown pulse parameter")
)
