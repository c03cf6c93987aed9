// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize   = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat    = errors.New("no decoder registered for format")
	ErrInvalidRate      = errors.New("sample rate must be positive")
	ErrInvalidBlockSize = errors.New("block size must be positive")
	ErrNoProgress       = errors.New("source returned no samples and no error")
)
