// SPDX-License-Identifier: EPL-2.0

// Package onset detects the start of new sound events from a per-block
// novelty signal.
//
// The detector is fed one novelty value per audio block together with the
// block duration. A block is an onset when the rise in novelty clears an
// adaptive threshold built from the running average of recent novelty and
// also exceeds the silence threshold. With the time threshold enabled, enough
// time must also have passed since the previous onset.
package onset

// Defaults applied by New.
const (
	DefaultAlpha            = 0.1
	DefaultSilenceThreshold = 0.02
	DefaultTimeThreshold    = 100.0 // milliseconds
	DefaultUseTimeThreshold = true

	// HistorySize is the number of past novelty values averaged into the
	// adaptive threshold.
	HistorySize = 16
)

// Detector is the onset state of one channel. It is not safe for concurrent
// use.
type Detector struct {
	alpha            float64
	silenceThreshold float64
	timeThreshold    float64
	useTimeThreshold bool

	clock     float64 // elapsed audio time in ms
	lastOnset float64
	hasOnset  bool // false means "never fired"

	history  [HistorySize]float64
	histLen  int
	histPos  int
	prev     float64
	hasPrev  bool
	detected bool
}

// New returns a detector with the package defaults.
func New() *Detector {
	return &Detector{
		alpha:            DefaultAlpha,
		silenceThreshold: DefaultSilenceThreshold,
		timeThreshold:    DefaultTimeThreshold,
		useTimeThreshold: DefaultUseTimeThreshold,
	}
}

// SetAlpha sets the weight of the running average in the adaptive threshold.
func (d *Detector) SetAlpha(alpha float64) { d.alpha = alpha }

// SetSilenceThreshold sets the absolute floor below which no onset fires.
func (d *Detector) SetSilenceThreshold(v float64) { d.silenceThreshold = v }

// SetTimeThreshold sets the minimum gap between onsets in milliseconds.
func (d *Detector) SetTimeThreshold(ms float64) { d.timeThreshold = ms }

// SetUseTimeThreshold enables or disables the minimum gap.
func (d *Detector) SetUseTimeThreshold(use bool) { d.useTimeThreshold = use }

// SetParameters sets all tuning parameters at once. Values are not validated;
// a negative threshold simply makes the detector more sensitive.
func (d *Detector) SetParameters(alpha, silenceThreshold, timeThreshold float64, useTimeThreshold bool) {
	d.alpha = alpha
	d.silenceThreshold = silenceThreshold
	d.timeThreshold = timeThreshold
	d.useTimeThreshold = useTimeThreshold
}

func (d *Detector) Alpha() float64            { return d.alpha }
func (d *Detector) SilenceThreshold() float64 { return d.silenceThreshold }
func (d *Detector) TimeThreshold() float64    { return d.timeThreshold }
func (d *Detector) UseTimeThreshold() bool    { return d.useTimeThreshold }

// Process evaluates one block and reports whether it is an onset. blockMillis
// is the duration of the block and advances the detector clock.
func (d *Detector) Process(novelty, blockMillis float64) bool {
	d.clock += blockMillis

	derivative := novelty
	if d.hasPrev {
		derivative = novelty - d.prev
	}
	threshold := d.alpha*d.average() + d.silenceThreshold

	d.detected = derivative > threshold && derivative > d.silenceThreshold
	if d.detected && d.useTimeThreshold && d.hasOnset && d.clock-d.lastOnset < d.timeThreshold {
		d.detected = false
	}
	if d.detected {
		d.lastOnset = d.clock
		d.hasOnset = true
	}

	d.push(novelty)
	return d.detected
}

// Value reports whether the last processed block was an onset.
func (d *Detector) Value() bool { return d.detected }

// LastOnset returns the time of the last accepted onset in milliseconds of
// processed audio, and false when no onset fired since the last Reset.
func (d *Detector) LastOnset() (float64, bool) { return d.lastOnset, d.hasOnset }

// Reset forgets onset history. Tuning parameters are preserved.
func (d *Detector) Reset() {
	d.hasOnset = false
	d.lastOnset = 0
	d.histLen = 0
	d.histPos = 0
	d.prev = 0
	d.hasPrev = false
	d.detected = false
}

func (d *Detector) push(v float64) {
	d.history[d.histPos] = v
	d.histPos = (d.histPos + 1) % HistorySize
	if d.histLen < HistorySize {
		d.histLen++
	}
	d.prev = v
	d.hasPrev = true
}

func (d *Detector) average() float64 {
	if d.histLen == 0 {
		return 0
	}
	var sum float64
	for i := range d.histLen {
		sum += d.history[i]
	}
	return sum / float64(d.histLen)
}
