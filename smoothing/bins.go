// SPDX-License-Identifier: EPL-2.0

package smoothing

// BinsSmoother applies Smoother semantics element-wise to a vector descriptor.
type BinsSmoother struct {
	prev   []float64
	raw    []float64
	out    []float64
	factor float64
	primed bool
}

// Push commits a new vector reading. raw is copied. A reading whose length
// differs from the previous one re-seeds the accumulator.
func (s *BinsSmoother) Push(raw []float64) {
	if !s.primed || len(raw) != len(s.raw) {
		s.prev = append(s.prev[:0], raw...)
		s.raw = append(s.raw[:0], raw...)
		s.primed = true
		return
	}
	for i := range s.prev {
		s.prev[i] = blend(s.prev[i], s.raw[i], s.factor)
	}
	copy(s.raw, raw)
}

// Values returns the smoothed vector for factor. The returned slice is owned
// by s and is overwritten by the next call.
func (s *BinsSmoother) Values(factor float64) []float64 {
	factor = clampFactor(factor)
	s.factor = factor
	if cap(s.out) < len(s.raw) {
		s.out = make([]float64, len(s.raw))
	}
	s.out = s.out[:len(s.raw)]
	for i := range s.raw {
		s.out[i] = blend(s.prev[i], s.raw[i], factor)
	}
	return s.out
}

// Primed reports whether at least one reading was pushed.
func (s *BinsSmoother) Primed() bool { return s.primed }

// Len returns the element count of the last pushed reading.
func (s *BinsSmoother) Len() int { return len(s.raw) }

// Reset forgets all readings but keeps allocated storage.
func (s *BinsSmoother) Reset() {
	s.prev = s.prev[:0]
	s.raw = s.raw[:0]
	s.out = s.out[:0]
	s.factor = 0
	s.primed = false
}

// NormalizeInPlace applies Normalize to every element of v.
func NormalizeInPlace(v []float64, ceiling float64) {
	for i := range v {
		v[i] = Normalize(v[i], ceiling)
	}
}
