// SPDX-License-Identifier: EPL-2.0

// Package descriptor holds the closed catalog of audio descriptors produced by
// the analyzer.
//
// There are two families:
//   - Value: scalar descriptors (RMS, pitch, spectral centroid, onset, ...)
//   - Bins: vector descriptors with a fixed element count (mel bands, MFCC, ...)
//
// Each entry has a stable enum value, a display name used by hosts for channel
// naming and lookup, and a default normalization ceiling:
//
//	v := descriptor.Parse("spectral_centroid")
//	fmt.Println(v, descriptor.DefaultMaxEstimatedValue(v))
//
// Lookups never fail. Unknown names map to None or NoneBins, and unknown
// values print as "-".
package descriptor
