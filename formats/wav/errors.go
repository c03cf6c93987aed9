// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedEncoding = errors.New("unsupported WAV encoding, only integer PCM is decoded")
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")
	ErrMissingPCMData      = errors.New("WAV file has no PCM data chunk")
	ErrInvalidWriterConfig = errors.New("invalid WAV writer configuration")
	ErrInvalidSampleCount  = errors.New("sample count is not a multiple of the channel count")
)
