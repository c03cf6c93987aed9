// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio file decoding.
//
// This package uses github.com/jfreymuth/oggvorbis, which decodes to float32
// directly, so samples are written into the caller's buffer without an
// intermediate copy. Any channel count and sample rate are supported.
//
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	buf := make([]float32, 4096*src.Channels())
//	n, err := src.ReadSamples(buf)
//
// The destination must hold whole frames; otherwise ReadSamples returns
// audio.ErrInvalidDstSize.
package vorbis
