// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"testing/iotest"

	goaudio "github.com/go-audio/audio"
)

// createWAVFile builds a canonical 44-byte header WAV around raw sample bytes.
func createWAVFile(formatTag, sampleRate, channels, bitsPerSample int, data []byte) []byte {
	buf := new(bytes.Buffer)

	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := uint32(sampleRate) * uint32(blockAlign)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(formatTag))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, byteRate)
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

func int16Bytes(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func readAll(t *testing.T, dec Decoder, data io.Reader) ([]float32, int, int) {
	t.Helper()

	src, err := dec.Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	buf := make([]float32, 3)
	var out []float32
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, src.SampleRate(), src.Channels()
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		data     []byte
		want     []float32
	}{
		{"8 bit unsigned", 8, []byte{0, 128, 192, 255}, []float32{-1, 0, 0.5, 127.0 / 128}},
		{"16 bit", 16, int16Bytes(math.MinInt16, 0, 16384, -8192), []float32{-1, 0, 0.5, -0.25}},
		{"24 bit", 24, []byte{0x00, 0x00, 0x80, 0x00, 0x00, 0x40}, []float32{-1, 0.5}},
		{"32 bit", 32, []byte{0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00, 0x40}, []float32{-1, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := createWAVFile(formatPCM, 8000, 1, tt.bitDepth, tt.data)
			got, rate, ch := readAll(t, Decoder{}, bytes.NewReader(file))

			if rate != 8000 || ch != 1 {
				t.Errorf("SampleRate()=%d Channels()=%d, want 8000, 1", rate, ch)
			}
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

func TestDecoder_Stereo(t *testing.T) {
	t.Parallel()

	file := createWAVFile(formatPCM, 44100, 2, 16, int16Bytes(16384, -16384, 8192, -8192))
	got, rate, ch := readAll(t, Decoder{}, bytes.NewReader(file))

	if rate != 44100 || ch != 2 {
		t.Errorf("SampleRate()=%d Channels()=%d, want 44100, 2", rate, ch)
	}
	want := []float32{0.5, -0.5, 0.25, -0.25}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecoder_NonSeekableInput(t *testing.T) {
	t.Parallel()

	file := createWAVFile(formatPCM, 16000, 1, 16, int16Bytes(1, 2, 3, 4, 5))
	got, _, _ := readAll(t, Decoder{}, iotest.OneByteReader(bytes.NewReader(file)))
	if len(got) != 5 {
		t.Errorf("got %d samples, want 5", len(got))
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not a wav file", []byte("This is not a WAV file"), ErrNotWavFile},
		{"too short", []byte("RIFF"), ErrNotWavFile},
		{"float samples", createWAVFile(3, 8000, 1, 32, make([]byte, 8)), ErrUnsupportedEncoding},
		{"12 bit", createWAVFile(formatPCM, 8000, 1, 12, make([]byte, 6)), ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(bytes.NewReader(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}

	boom := errors.New("read failed")
	if _, err := (Decoder{}).Decode(iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Errorf("Decode(failing reader) error = %v, want %v", err, boom)
	}
}

func TestDecoder_EOFIsSticky(t *testing.T) {
	t.Parallel()

	file := createWAVFile(formatPCM, 8000, 1, 16, int16Bytes(1, 2))
	src, err := Decoder{}.Decode(bytes.NewReader(file))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	buf := make([]float32, 16)
	if n, err := src.ReadSamples(buf); n != 2 || err != nil {
		t.Fatalf("first ReadSamples() = (%d, %v), want (2, nil)", n, err)
	}
	for range 2 {
		if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("ReadSamples() at the end = (%d, %v), want (0, EOF)", n, err)
		}
	}
	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

type failingPCM struct{ err error }

func (f failingPCM) PCMBuffer(*goaudio.IntBuffer) (int, error) { return 0, f.err }

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("truncated chunk")
	src := &source{dec: failingPCM{boom}, sampleRate: 8000, channels: 1, bitDepth: 16, buf: &goaudio.IntBuffer{}}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("ReadSamples() error = %v, want %v", err, boom)
	}
}

func BenchmarkDecoder(b *testing.B) {
	file := createWAVFile(formatPCM, 44100, 2, 16, make([]byte, 44100*4))
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for range b.N {
		src, _ := Decoder{}.Decode(bytes.NewReader(file))
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
