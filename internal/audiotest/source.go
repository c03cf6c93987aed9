// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides synthetic signals for tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// Waveform returns the sample of channel ch at frame i.
type Waveform func(i, ch int) float32

// Silence is zero everywhere.
func Silence(int, int) float32 { return 0 }

// Constant returns a DC waveform.
func Constant(v float32) Waveform {
	return func(int, int) float32 { return v }
}

// Sine returns a sine of freq Hz and amplitude amp, identical on every
// channel.
func Sine(sampleRate int, freq, amp float64) Waveform {
	return func(i, _ int) float32 {
		return float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
}

// Impulse is 1 at frame at on channel ch and 0 elsewhere.
func Impulse(at, ch int) Waveform {
	return func(i, c int) float32 {
		if i == at && c == ch {
			return 1
		}
		return 0
	}
}

// PerChannel uses waves[ch] for channel ch and silence for the rest.
func PerChannel(waves ...Waveform) Waveform {
	return func(i, ch int) float32 {
		if ch < len(waves) {
			return waves[ch](i, ch)
		}
		return 0
	}
}

// Source is a finite interleaved stream generated from a Waveform. It
// satisfies audio.Source.
type Source struct {
	sampleRate int
	channels   int
	frames     int
	pos        int
	wave       Waveform

	// MaxChunk limits the frames returned per ReadSamples call when > 0.
	MaxChunk int
	// Err, when set, is returned once the stream reaches ErrAt frames.
	Err   error
	ErrAt int

	closed bool
}

// NewSource returns a stream of frames frames.
func NewSource(sampleRate, channels, frames int, wave Waveform) *Source {
	return &Source{sampleRate: sampleRate, channels: channels, frames: frames, wave: wave}
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) Closed() bool    { return s.closed }

func (s *Source) Close() error {
	if s.closed {
		return errors.New("audiotest: source closed twice")
	}
	s.closed = true
	return nil
}

// Rewind restarts the stream.
func (s *Source) Rewind() { s.pos = 0 }

func (s *Source) ReadSamples(dst []float32) (int, error) {
	if s.Err != nil && s.pos >= s.ErrAt {
		return 0, s.Err
	}
	if s.pos >= s.frames {
		return 0, io.EOF
	}

	n := min(len(dst)/s.channels, s.frames-s.pos)
	if s.MaxChunk > 0 {
		n = min(n, s.MaxChunk)
	}
	if s.Err != nil {
		n = min(n, s.ErrAt-s.pos)
	}
	for f := range n {
		for ch := range s.channels {
			dst[f*s.channels+ch] = s.wave(s.pos+f, ch)
		}
	}
	s.pos += n

	if s.pos >= s.frames {
		return n * s.channels, io.EOF
	}
	return n * s.channels, nil
}

// Planar renders frames frames of each channel of wave.
func Planar(channels, frames int, wave Waveform) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		for i := range out[ch] {
			out[ch][i] = wave(i, ch)
		}
	}
	return out
}

// Interleaved renders frames frames of wave as one interleaved slice.
func Interleaved(channels, frames int, wave Waveform) []float32 {
	out := make([]float32, channels*frames)
	for i := range frames {
		for ch := range channels {
			out[i*channels+ch] = wave(i, ch)
		}
	}
	return out
}
