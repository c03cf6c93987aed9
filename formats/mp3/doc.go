// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 streams with github.com/hajimehoshi/go-mp3.
//
// The decoder always produces stereo, even for mono files, because go-mp3
// duplicates a single channel. Use audio.NewMonoMixer when one channel is
// wanted. Sample rate follows the first frame of the stream.
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	mono := audio.NewMonoMixer(src)
//
// ReadSamples needs a destination that holds whole stereo frames and
// returns audio.ErrInvalidDstSize otherwise. Decoding is streaming and does
// not require a seekable reader.
package mp3
