// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"cmp"
	"math"
	"slices"
)

const (
	maxPeaks            = 100
	peakThreshold       = 1e-6
	complexityThreshold = 0.005

	maxHarmonics      = 20
	harmonicTolerance = 0.2 // fraction of f0

	hpcpMinHz = 40.0
	hpcpMaxHz = 5000.0
	hpcpRefHz = 440.0

	// maximum of the Plomp-Levelt curve e^(-3.5x) - e^(-5.75x)
	plompMax = 0.18137
)

type peak struct {
	freq, mag float64
}

// findPeaks collects interpolated local maxima of mag into dst, strongest
// first, at most maxPeaks of them.
func findPeaks(mag []float64, hz float64, dst []peak) []peak {
	dst = dst[:0]
	for k := 1; k < len(mag)-1; k++ {
		a, b, c := mag[k-1], mag[k], mag[k+1]
		if !(b > peakThreshold) || b < a || b <= c || math.IsInf(b, 0) {
			continue
		}
		pos, amp := float64(k), b
		if den := a - 2*b + c; den != 0 {
			p := 0.5 * (a - c) / den
			pos += p
			amp = b - 0.25*(a-c)*p
		}
		if !finite(pos) || !finite(amp) {
			continue
		}
		dst = append(dst, peak{freq: pos * hz, mag: amp})
	}

	slices.SortFunc(dst, func(x, y peak) int { return cmp.Compare(y.mag, x.mag) })
	if len(dst) > maxPeaks {
		dst = dst[:maxPeaks]
	}
	return dst
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// sortByFreq orders peaks by ascending frequency.
func sortByFreq(peaks []peak) {
	slices.SortFunc(peaks, func(x, y peak) int { return cmp.Compare(x.freq, y.freq) })
}

// harmonicPeaks picks, for each multiple of f0, the nearest peak within the
// tolerance. Missing harmonics have zero magnitude. peaks must be sorted by
// frequency.
func harmonicPeaks(peaks []peak, f0 float64, dst []peak) []peak {
	dst = dst[:0]
	if f0 <= 0 {
		return dst
	}

	tol := harmonicTolerance * f0
	for h := 1; h <= maxHarmonics; h++ {
		target := float64(h) * f0
		found := peak{freq: target}
		bestDist := tol
		for _, p := range peaks {
			if p.freq > target+tol {
				break
			}
			if d := math.Abs(p.freq - target); d <= bestDist {
				bestDist = d
				found = p
			}
		}
		dst = append(dst, found)
	}
	return dst
}

// inharmonicity weighs the deviation of each harmonic from its ideal
// position by its energy.
func inharmonicity(harmonics []peak, f0 float64) float64 {
	if f0 <= 0 {
		return 0
	}
	var num, den float64
	for i, p := range harmonics {
		e := p.mag * p.mag
		num += math.Abs(p.freq-float64(i+1)*f0) * e
		den += e
	}
	if den == 0 {
		return 0
	}
	return clamp01(2 * num / (den * f0))
}

// oddToEven is the energy ratio of odd (1st, 3rd, ...) to even harmonics.
func oddToEven(harmonics []peak) float64 {
	const maxRatio = 1000

	var odd, even float64
	for i, p := range harmonics {
		e := p.mag * p.mag
		if i%2 == 0 {
			odd += e
		} else {
			even += e
		}
	}
	switch {
	case odd == 0:
		return 0
	case even == 0:
		return maxRatio
	default:
		return min(odd/even, maxRatio)
	}
}

// tristimulus writes the relative weight of the fundamental, harmonics 2-4
// and harmonics 5 and up into dst.
func tristimulus(harmonics []peak, dst []float64) {
	clear(dst)
	var total float64
	for _, p := range harmonics {
		total += p.mag
	}
	if total == 0 {
		return
	}
	for i, p := range harmonics {
		switch {
		case i == 0:
			dst[0] += p.mag
		case i < 4:
			dst[1] += p.mag
		default:
			dst[2] += p.mag
		}
	}
	for i := range dst {
		dst[i] /= total
	}
}

// dissonance is the amplitude-weighted Plomp-Levelt roughness of every pair
// of peaks, scaled to [0,1]. peaks must be sorted by frequency.
func dissonance(peaks []peak) float64 {
	const (
		b1 = 3.5
		b2 = 5.75
	)

	var total, weights float64
	for i := range peaks {
		for j := i + 1; j < len(peaks); j++ {
			fi, fj := peaks[i].freq, peaks[j].freq
			s := 0.24 / (0.021*min(fi, fj) + 19)
			x := s * math.Abs(fj-fi)
			w := peaks[i].mag * peaks[j].mag
			total += w * (math.Exp(-b1*x) - math.Exp(-b2*x))
			weights += w
		}
	}
	if weights == 0 {
		return 0
	}
	return clamp01(total / (weights * plompMax))
}

// hpcp folds peak energy into 12 pitch classes, bin 0 being A. Each peak is
// split between its two nearest classes with cosine weighting, and the
// result is scaled so the strongest class is 1.
func hpcp(peaks []peak, dst []float64) {
	clear(dst)
	n := float64(len(dst))
	for _, p := range peaks {
		if !(p.freq >= hpcpMinHz && p.freq <= hpcpMaxHz) {
			continue
		}
		pos := math.Mod(n*math.Log2(p.freq/hpcpRefHz), n)
		if !finite(pos) {
			continue
		}
		if pos < 0 {
			pos += n
		}
		lo := math.Floor(pos)
		d := pos - lo
		e := p.mag * p.mag

		w := math.Cos(math.Pi * d / 2)
		dst[int(lo)%len(dst)] += e * w * w
		dst[(int(lo)+1)%len(dst)] += e * (1 - w*w)
	}

	var peakVal float64
	for _, v := range dst {
		peakVal = max(peakVal, v)
	}
	if peakVal == 0 {
		return
	}
	for i := range dst {
		dst[i] /= peakVal
	}
}

// strongPeak is the ratio between the spectrum maximum and the log-frequency
// bandwidth over which the peak stays above half its height.
func strongPeak(mag []float64) float64 {
	if len(mag) < 2 {
		return 0
	}
	top := 0
	for k := range mag {
		if mag[k] > mag[top] {
			top = k
		}
	}
	if mag[top] <= 0 {
		return 0
	}

	half := mag[top] / 2
	left, right := top, top
	for left > 1 && mag[left-1] > half {
		left--
	}
	for right < len(mag)-1 && mag[right+1] > half {
		right++
	}
	left = max(left, 1)

	bw := math.Log10(float64(right+1) / float64(left))
	if bw <= 0 {
		return 0
	}
	return mag[top] / bw
}

// spectralComplexity counts peaks above the complexity threshold.
func spectralComplexity(peaks []peak) float64 {
	var n int
	for _, p := range peaks {
		if p.mag > complexityThreshold {
			n++
		}
	}
	return float64(n)
}
