// SPDX-License-Identifier: EPL-2.0

// Package utils holds the PCM sample conversions shared by the format
// packages.
package utils

import (
	"bytes"
	"fmt"
	"io"
)

// FullScale is the magnitude of the most negative signed sample at bitDepth.
func FullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

// SupportedBitDepth reports whether bitDepth is one of 8, 16, 24 or 32.
func SupportedBitDepth(bitDepth int) bool {
	switch bitDepth {
	case 8, 16, 24, 32:
		return true
	}
	return false
}

// PCMToFloat32 converts signed integer samples at bitDepth into dst and
// returns the number of samples converted.
func PCMToFloat32(dst []float32, src []int, bitDepth int) int {
	n := min(len(dst), len(src))
	scale := 1 / FullScale(bitDepth)
	for i := range n {
		dst[i] = float32(float64(src[i]) * scale)
	}
	return n
}

// Float32ToPCM clamps x to [-1, 1] and scales it to a signed integer at
// bitDepth. -1 maps to the most negative value and 1 to the most positive.
func Float32ToPCM(x float32, bitDepth int) int {
	v := max(-1, min(1, float64(x)))
	full := FullScale(bitDepth)
	if v < 0 {
		return int(v * full)
	}
	return int(v * (full - 1))
}

// ReadSeeker returns r itself when it can seek, otherwise an in-memory
// reader over everything r yields.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer input: %w", err)
	}
	return bytes.NewReader(data), nil
}
