// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audanalyzer/utils"
)

// Writer encodes interleaved float32 samples as integer PCM WAV.
type Writer struct {
	enc      *wav.Encoder
	channels int
	bitDepth int
	buf      *goaudio.IntBuffer
	started  bool
}

// NewWriter starts a WAV stream on w. The header sizes are patched on Close,
// which is why w must be seekable.
func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	if sampleRate <= 0 || channels <= 0 || !utils.SupportedBitDepth(bitDepth) {
		return nil, fmt.Errorf("%w: %d Hz, %d channel(s), %d bit",
			ErrInvalidWriterConfig, sampleRate, channels, bitDepth)
	}

	return &Writer{
		enc:      wav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		channels: channels,
		bitDepth: bitDepth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Write appends whole frames of interleaved samples. Values outside [-1, 1]
// are clipped.
func (w *Writer) Write(samples []float32) error {
	if len(samples)%w.channels != 0 {
		return fmt.Errorf("%w: %d samples, %d channel(s)", ErrInvalidSampleCount, len(samples), w.channels)
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]

	for i, s := range samples {
		v := utils.Float32ToPCM(s, w.bitDepth)
		if w.bitDepth == 8 {
			v += 128
		}
		w.buf.Data[i] = v
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	w.started = true
	return nil
}

// Close finalizes the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if !w.started {
		// the encoder only emits headers on its first write
		if err := w.enc.Write(&goaudio.IntBuffer{Format: w.buf.Format}); err != nil {
			return fmt.Errorf("write wav header: %w", err)
		}
	}
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

const (
	clickFreq      = 1000.0
	clickAmplitude = 0.8
	clickChunk     = 4096
)

// WriteClicks writes a mono 16-bit track of the given length with a short
// decaying 1 kHz burst starting at every onset frame. Onsets outside
// [0, frames) are ignored.
func WriteClicks(w io.WriteSeeker, sampleRate, frames int, onsets []int) error {
	wr, err := NewWriter(w, sampleRate, 1, 16)
	if err != nil {
		return err
	}

	clickLen := max(1, sampleRate/100)
	click := make([]float32, clickLen)
	for i := range click {
		decay := 1 - float64(i)/float64(clickLen)
		click[i] = float32(clickAmplitude * decay * math.Sin(2*math.Pi*clickFreq*float64(i)/float64(sampleRate)))
	}

	chunk := make([]float32, clickChunk)
	for start := 0; start < frames; start += clickChunk {
		n := min(clickChunk, frames-start)
		block := chunk[:n]
		clear(block)

		for _, at := range onsets {
			if at < 0 || at >= frames {
				continue
			}
			lo, hi := max(at, start), min(at+clickLen, start+n)
			for f := lo; f < hi; f++ {
				block[f-start] += click[f-at]
			}
		}

		if err := wr.Write(block); err != nil {
			return err
		}
	}

	return wr.Close()
}
