// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audanalyzer/audio"
)

// mockOggVorbisReader simulates oggvorbis.Reader: Read fills whole frames
// and returns the number of values written.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	packet     int
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.offset >= len(m.samples) {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}

	limit := len(buf) / m.channels * m.channels
	if m.packet > 0 {
		limit = min(limit, m.packet*m.channels)
	}
	n := copy(buf[:limit], m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i) / float32(n)
	}
	return out
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{[]byte("This is not Ogg Vorbis data"), nil} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		values   int
		packet   int
		chunk    int
	}{
		{"mono", 1, 1000, 0, 256},
		{"stereo", 2, 1000, 0, 256},
		{"six channels", 6, 1200, 0, 60},
		{"short packets", 2, 1000, 64, 512},
		{"one frame per read", 2, 40, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want := ramp(tt.values)
			src := &source{
				dec:        &mockOggVorbisReader{sampleRate: 48000, channels: tt.channels, samples: want, packet: tt.packet},
				sampleRate: 48000,
				channels:   tt.channels,
			}

			buf := make([]float32, tt.chunk)
			var got []float32
			for {
				n, err := src.ReadSamples(buf)
				if n%tt.channels != 0 {
					t.Fatalf("ReadSamples() returned %d values, not whole frames", n)
				}
				got = append(got, buf[:n]...)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error = %v", err)
				}
			}

			if len(got) != len(want) {
				t.Fatalf("got %d values, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("value %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestSource_ReadSamples_Errors(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{channels: 2, samples: ramp(8)}, channels: 2}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
	if _, err := src.ReadSamples(make([]float32, 5)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(5 values, stereo) error = %v, want ErrInvalidDstSize", err)
	}

	boom := errors.New("corrupt page")
	broken := &source{dec: &mockOggVorbisReader{channels: 1, err: boom}, channels: 1}
	if _, err := broken.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggVorbisReader{}, sampleRate: 22050, channels: 4}
	if src.SampleRate() != 22050 || src.Channels() != 4 {
		t.Errorf("SampleRate()=%d Channels()=%d, want 22050, 4", src.SampleRate(), src.Channels())
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for range b.N {
		src := &source{dec: &mockOggVorbisReader{channels: 2, samples: make([]float32, 44100*2)}, channels: 2}
		for {
			if _, err := src.ReadSamples(dst); err != nil {
				break
			}
		}
	}
}
