// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"math"

	"github.com/ik5/audanalyzer/descriptor"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

const (
	rolloffCutoff = 0.85
	loudnessExp   = 0.67
	logFloor      = 1e-10
	silence20dB   = 1e-2
	silence30dB   = 1e-3
	silence60dB   = 1e-6
)

// nativeExtractor computes the descriptor graph with gonum's FFT and DCT.
type nativeExtractor struct {
	sampleRate int
	bufferSize int
	hz         float64
	scale      float64 // magnitude scale so a full-scale sine peaks near 1

	window []float64
	mel    *filterbank
	bark   *filterbank
	fft    *fourier.FFT
	dct    *fourier.DCT

	windowed []float64
	coeffs   []complex128
	mag      []float64
	power    []float64
	prevMag  []float64
	yinBuf   []float64
	melLog   []float64
	cepstrum []float64

	peaks     []peak
	harmonics []peak
}

func newNativeExtractor(sampleRate, bufferSize int, window []float64, mel, bark *filterbank) *nativeExtractor {
	bins := bufferSize/2 + 1

	return &nativeExtractor{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		hz:         binHz(sampleRate, bufferSize),
		scale:      2 / max(floats.Sum(window), 1),
		window:     window,
		mel:        mel,
		bark:       bark,
		fft:        fourier.NewFFT(bufferSize),
		dct:        fourier.NewDCT(descriptor.MelBandsCount),
		windowed:   make([]float64, bufferSize),
		coeffs:     make([]complex128, bins),
		mag:        make([]float64, bins),
		power:      make([]float64, bins),
		prevMag:    make([]float64, bins),
		yinBuf:     make([]float64, bufferSize/2),
		melLog:     make([]float64, descriptor.MelBandsCount),
		cepstrum:   make([]float64, descriptor.MelBandsCount),
		peaks:      make([]peak, 0, maxPeaks),
		harmonics:  make([]peak, 0, maxHarmonics),
	}
}

func (x *nativeExtractor) BufferSize() int { return x.bufferSize }

func (x *nativeExtractor) Reset() {
	clear(x.prevMag)
}

func (x *nativeExtractor) Close() error {
	x.fft = nil
	x.dct = nil
	return nil
}

func (x *nativeExtractor) Compute(samples []float64, frame *Frame) error {
	if len(samples) != x.bufferSize {
		return fmt.Errorf("%w: got %d, want %d", ErrBlockSize, len(samples), x.bufferSize)
	}
	if x.fft == nil {
		return ErrEngineClosed
	}

	for b := range descriptor.NumBins {
		frame.Bins[b] = Resize(frame.Bins[b], descriptor.BinsSize(descriptor.Bins(b), x.bufferSize))
	}
	v := &frame.Values

	x.temporal(samples, v)
	x.spectrum(samples)

	copy(frame.Bins[descriptor.Spectrum], x.mag)
	x.spectral(v)

	flux := x.flux()
	v[descriptor.SpectralFlux] = flux
	frame.Novelty = v[descriptor.RMS] + flux

	f0, conf := yin(samples, x.yinBuf, x.sampleRate)
	v[descriptor.PitchYinFrequency] = f0
	v[descriptor.PitchYinConfidence] = conf
	v[descriptor.PitchSalience] = pitchSalience(x.mag, x.hz)

	x.peaks = findPeaks(x.mag, x.hz, x.peaks)
	v[descriptor.SpectralComplexity] = spectralComplexity(x.peaks)
	sortByFreq(x.peaks)
	v[descriptor.Dissonance] = dissonance(x.peaks)

	x.harmonics = harmonicPeaks(x.peaks, f0, x.harmonics)
	v[descriptor.Inharmonicity] = inharmonicity(x.harmonics, f0)
	v[descriptor.OddToEven] = oddToEven(x.harmonics)
	tristimulus(x.harmonics, frame.Bins[descriptor.Tristimulus])
	hpcp(x.peaks, frame.Bins[descriptor.HPCP])

	x.mel.apply(x.power, frame.Bins[descriptor.MelBands])
	x.bark.apply(x.power, frame.Bins[descriptor.BarkBands])
	x.mfcc(frame.Bins[descriptor.MelBands], frame.Bins[descriptor.MFCC])

	v[descriptor.Onset] = 0
	return nil
}

// temporal fills the descriptors computed on raw samples.
func (x *nativeExtractor) temporal(samples []float64, v *[descriptor.NumValues]float64) {
	energy := floats.Dot(samples, samples)
	n := float64(len(samples))
	power := energy / n

	var crossings int
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0) != (samples[i-1] >= 0) {
			crossings++
		}
	}

	v[descriptor.RMS] = math.Sqrt(power)
	v[descriptor.Power] = power
	v[descriptor.ZeroCrossingRate] = float64(crossings) / n
	v[descriptor.Loudness] = math.Pow(energy, loudnessExp)
	v[descriptor.SilenceRate20dB] = boolToFloat(power < silence20dB)
	v[descriptor.SilenceRate30dB] = boolToFloat(power < silence30dB)
	v[descriptor.SilenceRate60dB] = boolToFloat(power < silence60dB)
}

// spectrum windows the block and fills mag and power.
func (x *nativeExtractor) spectrum(samples []float64) {
	floats.MulTo(x.windowed, samples, x.window)
	x.coeffs = x.fft.Coefficients(x.coeffs, x.windowed)
	for k, c := range x.coeffs {
		m := math.Hypot(real(c), imag(c)) * x.scale
		x.mag[k] = m
		x.power[k] = m * m
	}
}

// spectral fills the descriptors derived from the magnitude spectrum.
func (x *nativeExtractor) spectral(v *[descriptor.NumValues]float64) {
	total := floats.Sum(x.power)
	v[descriptor.SpectralEnergy] = total

	var hfc, weighted, magSum, entropy float64
	for k, p := range x.power {
		hfc += float64(k) * p
		weighted += float64(k) * x.hz * x.mag[k]
		magSum += x.mag[k]
		if total > 0 && p > 0 {
			q := p / total
			entropy -= q * math.Log(q)
		}
	}
	v[descriptor.HFC] = hfc
	if magSum > 0 {
		v[descriptor.SpectralCentroid] = weighted / magSum
	} else {
		v[descriptor.SpectralCentroid] = 0
	}
	if len(x.power) > 1 {
		v[descriptor.SpectralEntropy] = entropy / math.Log(float64(len(x.power)))
	}

	v[descriptor.SpectralRolloff] = 0
	if total > 0 {
		var cum float64
		for k, p := range x.power {
			cum += p
			if cum >= rolloffCutoff*total {
				v[descriptor.SpectralRolloff] = float64(k) * x.hz
				break
			}
		}
	}

	v[descriptor.StrongPeak] = strongPeak(x.mag)
	for _, band := range energyBands {
		v[band.value] = bandEnergy(x.power, x.hz, band.low, band.high)
	}
}

// flux is the L2 norm of the positive spectral change since the previous
// block. The first block after a reset is compared against silence.
func (x *nativeExtractor) flux() float64 {
	var sum float64
	for k, m := range x.mag {
		if d := m - x.prevMag[k]; d > 0 {
			sum += d * d
		}
	}
	copy(x.prevMag, x.mag)
	return math.Sqrt(sum)
}

// mfcc takes the cepstrum of the log mel energies.
func (x *nativeExtractor) mfcc(mel, dst []float64) {
	for i, e := range mel {
		x.melLog[i] = math.Log(max(e, logFloor))
	}
	x.cepstrum = x.dct.Transform(x.cepstrum, x.melLog)
	copy(dst, x.cepstrum[:len(dst)])
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
