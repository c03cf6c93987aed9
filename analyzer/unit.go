// SPDX-License-Identifier: EPL-2.0

package analyzer

import (
	"fmt"
	"math"

	"github.com/ik5/audanalyzer/descriptor"
	"github.com/ik5/audanalyzer/dsp"
	"github.com/ik5/audanalyzer/onset"
	"github.com/ik5/audanalyzer/smoothing"
)

// Unit analyzes a single audio channel. It owns one descriptor graph, one
// onset detector and one smoother per descriptor. A Unit is not safe for
// concurrent use.
type Unit struct {
	factory    dsp.ExtractorFactory
	extractor  dsp.Extractor
	sampleRate int
	bufferSize int

	frame   dsp.Frame
	samples []float64

	values [descriptor.NumValues]smoothing.Smoother
	bins   [descriptor.NumBins]smoothing.BinsSmoother
	out    []float64

	maxValues [descriptor.NumValues]float64
	maxBins   [descriptor.NumBins]float64

	onsets *onset.Detector
}

// NewUnit returns an unconfigured unit whose descriptor graph is built by
// factory.
func NewUnit(factory dsp.ExtractorFactory) *Unit {
	u := &Unit{
		factory: factory,
		onsets:  onset.New(),
	}
	for i := range u.maxValues {
		u.maxValues[i] = descriptor.DefaultMaxEstimatedValue(descriptor.Value(i))
	}
	for i := range u.maxBins {
		u.maxBins[i] = descriptor.DefaultBinsMaxEstimatedValue(descriptor.Bins(i))
	}
	return u
}

// Configure (re)builds the descriptor graph for blocks of bufferSize samples
// and clears smoothing and onset history. Onset parameters and
// max-estimated values are kept.
func (u *Unit) Configure(sampleRate, bufferSize int) error {
	x, err := u.factory(sampleRate, bufferSize)
	if err != nil {
		return fmt.Errorf("configure unit: %w", err)
	}

	u.closeExtractor()
	u.extractor = x
	u.sampleRate = sampleRate
	u.bufferSize = bufferSize
	u.samples = dsp.Resize(u.samples, bufferSize)
	u.frame = dsp.Frame{}

	for i := range u.values {
		u.values[i].Reset()
	}
	for i := range u.bins {
		u.bins[i].Reset()
	}
	u.onsets.Reset()

	return nil
}

// BufferSize returns the configured block length.
func (u *Unit) BufferSize() int { return u.bufferSize }

// SampleRate returns the configured sample rate.
func (u *Unit) SampleRate() int { return u.sampleRate }

// Analyze runs the descriptor graph over one block. A block of the wrong
// length or with a NaN or infinite sample is rejected and the previous
// values are kept.
func (u *Unit) Analyze(samples []float32) error {
	if u.extractor == nil {
		return ErrNotConfigured
	}
	if len(samples) != u.bufferSize {
		return fmt.Errorf("%w: got %d, want %d", ErrBufferSizeMismatch, len(samples), u.bufferSize)
	}

	for i, s := range samples {
		f := float64(s)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v at %d", ErrNonFiniteSample, s, i)
		}
		u.samples[i] = f
	}
	if err := u.extractor.Compute(u.samples, &u.frame); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	blockMillis := float64(u.bufferSize) / float64(u.sampleRate) * 1000
	if u.onsets.Process(u.frame.Novelty, blockMillis) {
		u.frame.Values[descriptor.Onset] = 1
	} else {
		u.frame.Values[descriptor.Onset] = 0
	}

	for i := range u.values {
		u.values[i].Push(u.frame.Values[i])
	}
	for i := range u.bins {
		u.bins[i].Push(u.frame.Bins[i])
	}

	return nil
}

// Value reads a scalar descriptor smoothed with factor, optionally
// normalized against its max-estimated value. The onset descriptor is
// returned as 0 or 1 and ignores smoothing and normalization. Unknown
// descriptors and units that have not analyzed anything yet read 0.
func (u *Unit) Value(v descriptor.Value, smooth float64, normalized bool) float64 {
	if !v.Valid() {
		return 0
	}
	if v == descriptor.Onset {
		return u.values[v].Raw()
	}

	r := u.values[v].Value(smooth)
	if normalized {
		r = smoothing.Normalize(r, u.maxValues[v])
	}
	return r
}

// Values reads a vector descriptor. Before the first block it reads zeros
// sized for the configured buffer. The returned slice is owned by the unit
// and is only valid until the next call to Values.
func (u *Unit) Values(b descriptor.Bins, smooth float64, normalized bool) []float64 {
	if !b.Valid() {
		return nil
	}
	if !u.bins[b].Primed() {
		u.out = dsp.Resize(u.out, descriptor.BinsSize(b, u.bufferSize))
		return u.out
	}

	r := u.bins[b].Values(smooth)
	if cap(u.out) < len(r) {
		u.out = make([]float64, len(r))
	}
	u.out = u.out[:len(r)]
	copy(u.out, r)
	if normalized {
		smoothing.NormalizeInPlace(u.out, u.maxBins[b])
	}
	return u.out
}

// Onset reports whether the last analyzed block was an onset.
func (u *Unit) Onset() bool { return u.onsets.Value() }

// Onsets exposes the onset detector for parameter changes.
func (u *Unit) Onsets() *onset.Detector { return u.onsets }

// SetMaxEstimatedValue sets the normalization ceiling of v.
func (u *Unit) SetMaxEstimatedValue(v descriptor.Value, ceiling float64) {
	if v.Valid() {
		u.maxValues[v] = ceiling
	}
}

// SetBinsMaxEstimatedValue sets the normalization ceiling of b.
func (u *Unit) SetBinsMaxEstimatedValue(b descriptor.Bins, ceiling float64) {
	if b.Valid() {
		u.maxBins[b] = ceiling
	}
}

// MaxEstimatedValue returns the normalization ceiling of v.
func (u *Unit) MaxEstimatedValue(v descriptor.Value) float64 {
	if !v.Valid() {
		return 0
	}
	return u.maxValues[v]
}

// BinsMaxEstimatedValue returns the normalization ceiling of b.
func (u *Unit) BinsMaxEstimatedValue(b descriptor.Bins) float64 {
	if !b.Valid() {
		return 0
	}
	return u.maxBins[b]
}

// Exit releases the descriptor graph. The unit must be configured again
// before further use.
func (u *Unit) Exit() {
	u.closeExtractor()
	u.bufferSize = 0
}

func (u *Unit) closeExtractor() {
	if u.extractor != nil {
		_ = u.extractor.Close()
		u.extractor = nil
	}
}
