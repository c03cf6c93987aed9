// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate  int
	channels    int
	samples     []int
	offset      int
	err         error
	eofWithData bool
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, nil
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	if m.eofWithData && m.offset >= len(m.samples) {
		return n, io.EOF
	}
	return n, nil
}

// createAIFFFile builds a minimal FORM/AIFF file with 16 bit big-endian samples.
func createAIFFFile(sampleRate, channels int, samples []int16) []byte {
	comm := new(bytes.Buffer)
	binary.Write(comm, binary.BigEndian, int16(channels))
	binary.Write(comm, binary.BigEndian, uint32(len(samples)/channels))
	binary.Write(comm, binary.BigEndian, int16(16))
	rate := goaudio.IntToIEEEFloat(sampleRate)
	comm.Write(rate[:])

	ssnd := new(bytes.Buffer)
	binary.Write(ssnd, binary.BigEndian, uint32(0)) // offset
	binary.Write(ssnd, binary.BigEndian, uint32(0)) // block size
	for _, s := range samples {
		binary.Write(ssnd, binary.BigEndian, s)
	}

	body := new(bytes.Buffer)
	body.WriteString("AIFF")
	body.WriteString("COMM")
	binary.Write(body, binary.BigEndian, uint32(comm.Len()))
	body.Write(comm.Bytes())
	body.WriteString("SSND")
	binary.Write(body, binary.BigEndian, uint32(ssnd.Len()))
	body.Write(ssnd.Bytes())

	out := new(bytes.Buffer)
	out.WriteString("FORM")
	binary.Write(out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func readAll(t *testing.T, src interface {
	ReadSamples([]float32) (int, error)
}, chunk int) []float32 {
	t.Helper()

	buf := make([]float32, chunk)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"text", []byte("This is not AIFF data")},
		{"empty", nil},
	}

	for _, tt := range tests {
		if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); !errors.Is(err, ErrNotAiffFile) {
			t.Errorf("%s: Decode() error = %v, want ErrNotAiffFile", tt.name, err)
		}
	}
}

func TestDecoder_File16Bit(t *testing.T) {
	t.Parallel()

	file := createAIFFFile(44100, 2, []int16{16384, -16384, math.MinInt16, 0})
	src, err := Decoder{}.Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 44100 || src.Channels() != 2 {
		t.Errorf("SampleRate()=%d Channels()=%d, want 44100, 2", src.SampleRate(), src.Channels())
	}

	got := readAll(t, src, 64)
	want := []float32{0.5, -0.5, -1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		samples  []int
		want     []float32
	}{
		{"8 bit signed", 8, []int{-128, 64, 0}, []float32{-1, 0.5, 0}},
		{"16 bit", 16, []int{-32768, 16384}, []float32{-1, 0.5}},
		{"24 bit", 24, []int{-8388608, 4194304}, []float32{-1, 0.5}},
		{"32 bit", 32, []int{math.MinInt32, 1 << 30}, []float32{-1, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{
				dec:        &mockAiffReader{sampleRate: 8000, channels: 1, samples: tt.samples},
				sampleRate: 8000,
				channels:   1,
				bitDepth:   tt.bitDepth,
			}
			got := readAll(t, src, 2)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSource_EOFWithData(t *testing.T) {
	t.Parallel()

	src := &source{
		dec:      &mockAiffReader{channels: 1, samples: []int{1, 2, 3}, eofWithData: true},
		channels: 1,
		bitDepth: 16,
	}

	buf := make([]float32, 8)
	if n, err := src.ReadSamples(buf); n != 3 || err != nil {
		t.Fatalf("ReadSamples() = (%d, %v), want (3, nil)", n, err)
	}
	if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after the end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("bad SSND chunk")
	src := &source{dec: &mockAiffReader{channels: 1, err: boom}, channels: 1, bitDepth: 16}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReusesBuffer(t *testing.T) {
	src := &source{
		dec:      &mockAiffReader{channels: 2, samples: make([]int, 1<<20)},
		channels: 2,
		bitDepth: 16,
	}
	dst := make([]float32, 512)
	_, _ = src.ReadSamples(dst)

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = src.ReadSamples(dst)
	})
	if allocs != 0 {
		t.Errorf("ReadSamples() allocates %v times per call", allocs)
	}
}
