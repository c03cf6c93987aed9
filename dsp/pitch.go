// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

const (
	yinTolerance = 0.15
	yinMinFreq   = 20.0
	yinMaxFreq   = 22050.0

	salienceLowHz  = 100.0
	salienceHighHz = 5000.0
)

// yin estimates the fundamental frequency of x with the YIN difference
// function. diff is scratch space of at least len(x)/2 elements. It returns
// (0, 0) for silent or aperiodic input.
func yin(x, diff []float64, sampleRate int) (freq, confidence float64) {
	w := len(x) / 2
	if w < 3 {
		return 0, 0
	}

	tauMin := max(int(float64(sampleRate)/yinMaxFreq), 2)
	tauMax := min(int(float64(sampleRate)/yinMinFreq), w-1)
	if tauMin >= tauMax {
		return 0, 0
	}

	diff = diff[:tauMax+1]
	diff[0] = 1
	var running float64
	for tau := 1; tau <= tauMax; tau++ {
		var d float64
		for j := range w {
			delta := x[j] - x[j+tau]
			d += delta * delta
		}
		running += d
		if running == 0 {
			diff[tau] = 1
			continue
		}
		// cumulative mean normalized difference
		diff[tau] = d * float64(tau) / running
	}
	if running == 0 {
		return 0, 0
	}

	best := -1
	for tau := tauMin; tau <= tauMax; tau++ {
		if diff[tau] < yinTolerance {
			for tau+1 <= tauMax && diff[tau+1] < diff[tau] {
				tau++
			}
			best = tau
			break
		}
	}
	if best < 0 {
		best = tauMin
		for tau := tauMin + 1; tau <= tauMax; tau++ {
			if diff[tau] < diff[best] {
				best = tau
			}
		}
	}

	period, value := float64(best), diff[best]
	if best > tauMin && best < tauMax {
		a, b, c := diff[best-1], diff[best], diff[best+1]
		if den := a - 2*b + c; den != 0 {
			p := 0.5 * (a - c) / den
			period += p
			value = b - 0.25*(a-c)*p
		}
	}
	if period <= 0 {
		return 0, 0
	}

	return float64(sampleRate) / period, clamp01(1 - value)
}

// pitchSalience is the ratio between the highest autocorrelation peak of the
// magnitude spectrum within the salience lag range and its zero-lag value.
func pitchSalience(mag []float64, hz float64) float64 {
	var ac0 float64
	for _, m := range mag {
		ac0 += m * m
	}
	if ac0 == 0 {
		return 0
	}

	low := max(int(salienceLowHz/hz), 1)
	high := min(int(salienceHighHz/hz), len(mag)-1)

	var best float64
	for lag := low; lag <= high; lag++ {
		var ac float64
		for k := 0; k+lag < len(mag); k++ {
			ac += mag[k] * mag[k+lag]
		}
		best = max(best, ac)
	}

	return clamp01(best / ac0)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
