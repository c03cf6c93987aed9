// SPDX-License-Identifier: EPL-2.0

package dsp

import "github.com/ik5/audanalyzer/descriptor"

// Frame is the raw output of one pass of the descriptor graph.
type Frame struct {
	// Values holds every scalar descriptor. descriptor.Onset is left at zero;
	// onset decisions belong to the caller.
	Values [descriptor.NumValues]float64
	// Bins holds every vector descriptor, sized per descriptor.BinsSize.
	Bins [descriptor.NumBins][]float64
	// Novelty is the detection function fed to the onset detector.
	Novelty float64
}

// Extractor computes the fixed descriptor graph for one channel. Extractors
// keep state between blocks (spectral flux needs the previous spectrum) and
// must not be shared between channels.
type Extractor interface {
	// Compute analyzes one block of exactly BufferSize samples into frame.
	// Slices already present in frame.Bins are reused when large enough.
	Compute(samples []float64, frame *Frame) error
	// BufferSize returns the block length the extractor was built for.
	BufferSize() int
	// Reset clears inter-block state.
	Reset()
	// Close releases resources held by the extractor.
	Close() error
}

// ExtractorFactory builds an extractor for a (sampleRate, bufferSize) pair.
type ExtractorFactory func(sampleRate, bufferSize int) (Extractor, error)

// Resize makes s exactly n long, reusing its storage when possible, and
// zeroes it.
func Resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	s = s[:n]
	clear(s)
	return s
}
