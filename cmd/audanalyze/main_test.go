// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ik5/audanalyzer/audio"
	"github.com/ik5/audanalyzer/formats/wav"
)

// writeTone writes a stereo 16-bit WAV that is silent for the first
// silentFrames frames and a 430 Hz tone afterwards.
func writeTone(t *testing.T, dir string, silentFrames, frames int) string {
	t.Helper()

	path := filepath.Join(dir, "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	w, err := wav.NewWriter(f, 44100, 2, 16)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	samples := make([]float32, 2*frames)
	for i := silentFrames; i < frames; i++ {
		s := float32(0.5 * math.Sin(2*math.Pi*430*float64(i)/44100))
		samples[2*i], samples[2*i+1] = s, s
	}
	if err := w.Write(samples); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

func TestRun_CSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, 4096, 8192)
	clicks := filepath.Join(dir, "clicks.wav")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-descriptors", "rms, spectral_centroid", "-clicks", clicks, input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v, stderr: %s", err, stderr.String())
	}

	rows, err := csv.NewReader(&stdout).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV: %v", err)
	}
	if want := []string{"block", "time", "frames", "onset", "rms", "spectral_centroid"}; !slices.Equal(rows[0], want) {
		t.Errorf("header = %v, want %v", rows[0], want)
	}
	if len(rows) != 9 {
		t.Fatalf("got %d rows, want header + 8 blocks", len(rows))
	}

	var onsetBlocks []string
	for _, row := range rows[1:] {
		if row[3] == "1" {
			onsetBlocks = append(onsetBlocks, row[0])
		}
	}
	if !slices.Equal(onsetBlocks, []string{"4"}) {
		t.Errorf("onsets in blocks %v, want [4]", onsetBlocks)
	}
	if rows[2][1] != "0.023220" {
		t.Errorf("block 1 time = %s, want 0.023220", rows[2][1])
	}

	cf, err := os.Open(clicks)
	if err != nil {
		t.Fatalf("click track missing: %v", err)
	}
	defer cf.Close()

	src, err := wav.Decoder{}.Decode(cf)
	if err != nil {
		t.Fatalf("decoding click track: %v", err)
	}
	blocks, _ := audio.NewBlockReader(src, 8192, audio.WithPadding(true))
	if _, valid, err := blocks.Next(); err != nil || valid != 8192 {
		t.Errorf("click track has %d frames (%v), want 8192", valid, err)
	}
}

func TestRun_OutputFileAndMono(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, 0, 4000)
	output := filepath.Join(dir, "out.csv")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-o", output, "-mono", "-rate", "22050", "-block", "512", "-drop-tail", "-descriptors", "rms", input}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout has %d bytes, want none with -o", stdout.Len())
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	rows, _ := csv.NewReader(bytes.NewReader(data)).ReadAll()
	// about 2000 frames at 22.05 kHz, three full blocks of 512
	if len(rows) != 4 {
		t.Errorf("got %d rows, want header + 3 blocks", len(rows))
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeTone(t, dir, 0, 1024)
	bogus := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bogus, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"no input", nil, errUsage, ""},
		{"two inputs", []string{input, input}, errUsage, ""},
		{"unknown descriptor", []string{"-descriptors", "rms,tempo", input}, nil, `unknown descriptor "tempo"`},
		{"unknown format", []string{bogus}, audio.ErrUnknownFormat, ""},
		{"missing file", []string{filepath.Join(dir, "gone.wav")}, os.ErrNotExist, ""},
		{"odd block", []string{"-block", "511", input}, nil, "invalid analyzer configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if err == nil {
				t.Fatal("run() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("run() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("run() error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRun_VerboseLogs(t *testing.T) {
	t.Parallel()

	input := writeTone(t, t.TempDir(), 0, 2048)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-v", "-descriptors", "rms", input}, &stdout, &stderr); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"level=DEBUG", "analysis started", "level=INFO", "onsets="} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr is missing %q:\n%s", want, stderr.String())
		}
	}
}
