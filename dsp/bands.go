// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"

	"github.com/ik5/audanalyzer/descriptor"
)

type bankKind int

const (
	melBank bankKind = iota
	barkBank
)

// barkEdges are the critical band edges in Hz. 27 bands use the first 28.
var barkEdges = [...]float64{
	0, 50, 100, 150, 200, 300, 400, 510, 630, 770, 920, 1080, 1270, 1480, 1720,
	2000, 2320, 2700, 3150, 3700, 4400, 5300, 6400, 7700, 9500, 12000, 15500,
	20500, 27000,
}

// energyBands are the [low, high) limits of the four energy band descriptors.
var energyBands = [4]struct {
	value     descriptor.Value
	low, high float64
}{
	{descriptor.EnergyBandLow, 20, 150},
	{descriptor.EnergyBandMidLow, 150, 800},
	{descriptor.EnergyBandMidHi, 800, 4000},
	{descriptor.EnergyBandHi, 4000, 20000},
}

// filterbank is a sparse set of weighted bin ranges applied to a power
// spectrum. It is immutable once built and shared between extractors.
type filterbank struct {
	filters []filter
}

type filter struct {
	start   int
	weights []float64
}

func (fb *filterbank) apply(power, dst []float64) {
	for i, f := range fb.filters {
		var sum float64
		for j, w := range f.weights {
			k := f.start + j
			if k >= len(power) {
				break
			}
			sum += w * power[k]
		}
		dst[i] = sum
	}
}

func binHz(sampleRate, bufferSize int) float64 {
	return float64(sampleRate) / float64(bufferSize)
}

func hzToMel(f float64) float64 { return 2595 * math.Log10(1+f/700) }
func melToHz(m float64) float64 { return 700 * (math.Pow(10, m/2595) - 1) }

// newMelFilterbank builds triangular filters evenly spaced on the mel scale
// between 0 Hz and Nyquist.
func newMelFilterbank(sampleRate, bufferSize int) *filterbank {
	const n = descriptor.MelBandsCount

	nyquist := float64(sampleRate) / 2
	bins := bufferSize/2 + 1
	hz := binHz(sampleRate, bufferSize)

	maxMel := hzToMel(nyquist)
	edges := make([]float64, n+2)
	for i := range edges {
		edges[i] = melToHz(maxMel * float64(i) / float64(n+1))
	}

	fb := &filterbank{filters: make([]filter, n)}
	for m := range n {
		lo, mid, hi := edges[m], edges[m+1], edges[m+2]
		start := int(math.Ceil(lo / hz))
		end := min(int(math.Floor(hi/hz)), bins-1)

		var weights []float64
		for k := start; k <= end; k++ {
			f := float64(k) * hz
			var w float64
			switch {
			case f <= mid && mid > lo:
				w = (f - lo) / (mid - lo)
			case f > mid && hi > mid:
				w = (hi - f) / (hi - mid)
			}
			weights = append(weights, max(w, 0))
		}
		fb.filters[m] = filter{start: start, weights: weights}
	}

	return fb
}

// newBarkFilterbank builds rectangular filters over the critical bands.
func newBarkFilterbank(sampleRate, bufferSize int) *filterbank {
	const n = descriptor.BarkBandsCount

	bins := bufferSize/2 + 1
	hz := binHz(sampleRate, bufferSize)

	fb := &filterbank{filters: make([]filter, n)}
	for b := range n {
		start := int(math.Ceil(barkEdges[b] / hz))
		end := min(int(math.Ceil(barkEdges[b+1]/hz))-1, bins-1)

		var weights []float64
		for k := start; k <= end; k++ {
			weights = append(weights, 1)
		}
		fb.filters[b] = filter{start: start, weights: weights}
	}

	return fb
}

// bandEnergy sums power over [low, high) Hz.
func bandEnergy(power []float64, hz, low, high float64) float64 {
	start := int(math.Ceil(low / hz))
	var sum float64
	for k := start; k < len(power); k++ {
		if float64(k)*hz >= high {
			break
		}
		sum += power[k]
	}
	return sum
}
