// SPDX-License-Identifier: EPL-2.0

// Package smoothing implements the exponential moving average and max-based
// normalization applied to descriptor readings.
//
// A Smoother separates committing a reading (Push, once per block) from reading
// it back (Value, any number of times). The smoothing factor is chosen at read
// time:
//
//	s.Push(raw)
//	v := s.Value(0.8) // 0.8*previous + 0.2*raw
//
// Factor 0 returns the raw reading unchanged; factor 1 returns the previous
// smoothed state.
package smoothing

import "math"

// Smoother is the EMA state of one scalar descriptor. The zero value is ready
// to use and reads 0 until the first Push.
type Smoother struct {
	prev   float64 // smoothed output as of the previous block
	raw    float64
	factor float64 // factor of the most recent read
	primed bool
}

// Push commits the raw reading of a new block. The first push seeds the
// accumulator with raw so there is no ramp from zero.
func (s *Smoother) Push(raw float64) {
	if !s.primed {
		s.prev = raw
		s.raw = raw
		s.primed = true
		return
	}
	s.prev = blend(s.prev, s.raw, s.factor)
	s.raw = raw
}

// Value returns factor*previous + (1-factor)*raw. The factor is clamped to
// [0,1] and remembered so the next Push advances the state with it.
func (s *Smoother) Value(factor float64) float64 {
	factor = clampFactor(factor)
	s.factor = factor
	return blend(s.prev, s.raw, factor)
}

// Raw returns the last pushed reading.
func (s *Smoother) Raw() float64 { return s.raw }

// Primed reports whether at least one reading was pushed.
func (s *Smoother) Primed() bool { return s.primed }

// Reset returns s to its zero state.
func (s *Smoother) Reset() { *s = Smoother{} }

// Normalize maps v onto [0,1] by dividing by ceiling. A ceiling that is zero,
// negative or NaN yields 0.
func Normalize(v, ceiling float64) float64 {
	if !(ceiling > 0) || math.IsNaN(v) {
		return 0
	}
	return clamp01(v / ceiling)
}

func blend(prev, raw, factor float64) float64 {
	if factor == 0 || prev == raw {
		return raw
	}
	if factor == 1 {
		return prev
	}
	return factor*prev + (1-factor)*raw
}

func clampFactor(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return clamp01(f)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
