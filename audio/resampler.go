// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

const resampleChunkFrames = 1024

// Resampler streams src at another sample rate using Catmull-Rom
// interpolation over four consecutive frames. The channel count is kept.
// When downsampling, a one-pole low-pass at the target Nyquist frequency is
// applied to the input first.
type Resampler struct {
	src      Source
	rate     int
	step     float64 // source frames per output frame
	channels int

	// hist[1] and hist[2] bracket the output position; hist[0] and hist[3]
	// are the outer support points.
	hist  [4][]float32
	valid [4]bool
	pos   float64

	in      []float32
	off, n  int
	srcEOF  bool
	primed  bool
	drained bool

	lowpass bool
	alpha   float32
	state   []float32
}

// NewResampler returns a Resampler producing rate Hz from src.
func NewResampler(src Source, rate int) (*Resampler, error) {
	if rate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d", ErrInvalidRate, src.SampleRate(), rate)
	}

	ch := max(src.Channels(), 1)
	r := &Resampler{
		src:      src,
		rate:     rate,
		step:     float64(src.SampleRate()) / float64(rate),
		channels: ch,
		in:       make([]float32, resampleChunkFrames*ch),
		state:    make([]float32, ch),
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, ch)
	}

	if r.step > 1 {
		r.lowpass = true
		cutoff := float64(rate) / 2
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff/float64(src.SampleRate())))
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler close: %w", err)
	}
	return nil
}

// nextFrame copies the next source frame into dst. It reports false once
// the source is exhausted.
func (r *Resampler) nextFrame(dst []float32) (bool, error) {
	for r.off >= r.n {
		if r.srcEOF {
			return false, nil
		}

		n, err := r.src.ReadSamples(r.in)
		r.off, r.n = 0, n-n%r.channels
		switch {
		case errors.Is(err, io.EOF):
			r.srcEOF = true
		case err != nil:
			return false, fmt.Errorf("resample: %w", err)
		case n == 0:
			return false, ErrNoProgress
		}
	}

	frame := r.in[r.off : r.off+r.channels]
	r.off += r.channels

	if !r.lowpass {
		copy(dst, frame)
		return true, nil
	}
	for c, x := range frame {
		r.state[c] += r.alpha * (x - r.state[c])
		dst[c] = r.state[c]
	}
	return true, nil
}

func (r *Resampler) prime() error {
	ok, err := r.nextFrame(r.hist[1])
	if err != nil || !ok {
		r.drained = true
		return err
	}
	if r.lowpass {
		// start the filter settled on the first frame
		copy(r.state, r.hist[1])
	}
	copy(r.hist[0], r.hist[1])
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.nextFrame(r.hist[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.hist[i], r.hist[i-1])
		}
		r.valid[i] = ok
	}
	r.primed = true
	return nil
}

func (r *Resampler) shift() error {
	oldest := r.hist[0]
	copy(r.hist[:3], r.hist[1:])
	copy(r.valid[:3], r.valid[1:])
	r.hist[3] = oldest

	ok, err := r.nextFrame(r.hist[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.hist[3], r.hist[2])
	}
	r.valid[3] = ok
	return nil
}

// ReadSamples produces interleaved samples at the target rate. len(dst)
// must be a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.drained {
		return 0, io.EOF
	}
	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
		if r.drained {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
			r.pos--
		}
		if !r.valid[1] {
			r.drained = true
			break
		}

		t := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = catmullRom(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], t)
		}
		written++
		r.pos += r.step
	}

	if r.drained {
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}

// catmullRom interpolates between y1 (t=0) and y2 (t=1).
func catmullRom(y0, y1, y2, y3, t float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2

	return ((a0*t+a1)*t+a2)*t + y1
}
