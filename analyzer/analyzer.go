// SPDX-License-Identifier: EPL-2.0

package analyzer

import (
	"fmt"
	"log/slog"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audanalyzer/descriptor"
	"github.com/ik5/audanalyzer/dsp"
)

// OnsetParams is the configuration of one channel's onset detector.
type OnsetParams struct {
	Alpha            float64
	SilenceThreshold float64
	TimeThreshold    float64 // milliseconds
	UseTimeThreshold bool
}

// Analyzer fans multichannel blocks out to one Unit per channel and answers
// per-channel and channel-averaged reads.
//
// An Analyzer is not safe for concurrent use. Several analyzers may share one
// dsp.Engine.
type Analyzer struct {
	engine  *dsp.Engine
	factory dsp.ExtractorFactory

	logger       *slog.Logger
	onDiagnostic DiagnosticHandler

	sampleRate int
	bufferSize int
	channels   int
	units      []*Unit
	planar     [][]float32

	stored     map[descriptor.Value]float64
	storedBins map[descriptor.Bins]float64
	onsetCfg   map[int]OnsetParams

	exited bool
}

// New returns an analyzer holding a reference on engine. The analyzer has
// no channels until Setup is called.
func New(engine *dsp.Engine, opts ...Option) (*Analyzer, error) {
	if err := engine.Retain(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}

	a := &Analyzer{
		engine:     engine,
		factory:    engine.Factory(),
		logger:     discardLogger(),
		stored:     make(map[descriptor.Value]float64),
		storedBins: make(map[descriptor.Bins]float64),
		onsetCfg:   make(map[int]OnsetParams),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.factory == nil {
		a.factory = engine.Factory()
	}

	return a, nil
}

// Setup configures the analyzer for blocks of bufferSize frames with the
// given channel count. Calling it again with the same arguments keeps every
// unit and its history. Any change rebuilds all units with default
// normalization ceilings.
//
// A channel count below one is coerced to one. An unusable sample rate or
// buffer size returns ErrInvalidConfig and leaves the analyzer unchanged.
func (a *Analyzer) Setup(sampleRate, bufferSize, channels int) error {
	channels = a.coerceChannels("Setup", channels)
	if a.configured() &&
		sampleRate == a.sampleRate && bufferSize == a.bufferSize && channels == a.channels {
		return nil
	}

	return a.rebuild("Setup", sampleRate, bufferSize, channels)
}

// Reset always rebuilds every unit, then reapplies the stored normalization
// ceilings and onset parameters.
func (a *Analyzer) Reset(sampleRate, bufferSize, channels int) error {
	channels = a.coerceChannels("Reset", channels)
	if err := a.rebuild("Reset", sampleRate, bufferSize, channels); err != nil {
		return err
	}

	for v, ceiling := range a.stored {
		for _, u := range a.units {
			u.SetMaxEstimatedValue(v, ceiling)
		}
	}
	for b, ceiling := range a.storedBins {
		for _, u := range a.units {
			u.SetBinsMaxEstimatedValue(b, ceiling)
		}
	}
	for ch, p := range a.onsetCfg {
		if ch < len(a.units) {
			a.units[ch].Onsets().SetParameters(p.Alpha, p.SilenceThreshold, p.TimeThreshold, p.UseTimeThreshold)
		}
	}

	return nil
}

func (a *Analyzer) coerceChannels(op string, channels int) int {
	if channels > 0 {
		return channels
	}
	a.report(KindCoerced, op, -1, fmt.Errorf("channels %d coerced to 1", channels))
	return 1
}

func (a *Analyzer) rebuild(op string, sampleRate, bufferSize, channels int) error {
	if a.exited {
		a.report(KindEngineUnavailable, op, -1, ErrEngineUnavailable)
		return ErrEngineUnavailable
	}
	if sampleRate <= 0 || bufferSize < 2 || bufferSize%2 != 0 {
		return fmt.Errorf("%w: sample rate %d, buffer size %d", ErrInvalidConfig, sampleRate, bufferSize)
	}

	units := make([]*Unit, channels)
	for i := range units {
		u := NewUnit(a.factory)
		if err := u.Configure(sampleRate, bufferSize); err != nil {
			for _, built := range units[:i] {
				built.Exit()
			}
			if a.engine.Closed() {
				a.report(KindEngineUnavailable, op, i, err)
				return fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
			}
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		units[i] = u
	}

	a.exitUnits()
	a.units = units
	a.sampleRate = sampleRate
	a.bufferSize = bufferSize
	a.channels = channels
	a.planar = make([][]float32, channels)
	for i := range a.planar {
		a.planar[i] = make([]float32, bufferSize)
	}

	a.logger.Debug("analyzer configured",
		slog.String("op", op),
		slog.Int("sample_rate", sampleRate),
		slog.Int("buffer_size", bufferSize),
		slog.Int("channels", channels),
	)

	return nil
}

func (a *Analyzer) configured() bool {
	return len(a.units) > 0 && len(a.units) == a.channels
}

// Analyze splits an interleaved block into per-channel copies and analyzes
// each of them. A block whose channel count or frame count does not match
// the configuration is skipped with a KindConfigMismatch diagnostic, and the
// previous values stay readable.
func (a *Analyzer) Analyze(block *goaudio.Float32Buffer) {
	if block == nil || block.Format == nil {
		a.report(KindConfigMismatch, "Analyze", -1, fmt.Errorf("%w: block without format", ErrChannelMismatch))
		return
	}
	nch := block.Format.NumChannels
	if !a.checkShape(nch) {
		return
	}
	if nch <= 0 || len(block.Data) != a.bufferSize*nch {
		a.report(KindConfigMismatch, "Analyze", -1,
			fmt.Errorf("%w: %d samples, want %d", ErrBufferSizeMismatch, len(block.Data), a.bufferSize*nch))
		return
	}

	for ch, dst := range a.planar {
		for i := range dst {
			dst[i] = block.Data[i*nch+ch]
		}
	}
	a.analyzeUnits(a.planar)
}

// AnalyzePlanar analyzes one slice per channel. The slices are copied and
// not retained.
func (a *Analyzer) AnalyzePlanar(block [][]float32) {
	if !a.checkShape(len(block)) {
		return
	}
	for ch, samples := range block {
		if len(samples) != a.bufferSize {
			a.report(KindConfigMismatch, "AnalyzePlanar", ch,
				fmt.Errorf("%w: got %d, want %d", ErrBufferSizeMismatch, len(samples), a.bufferSize))
			return
		}
	}

	for ch, samples := range block {
		copy(a.planar[ch], samples)
	}
	a.analyzeUnits(a.planar)
}

func (a *Analyzer) checkShape(channels int) bool {
	if channels != a.channels {
		a.report(KindConfigMismatch, "Analyze", -1,
			fmt.Errorf("%w: got %d, want %d", ErrChannelMismatch, channels, a.channels))
		return false
	}
	if len(a.units) != a.channels {
		a.report(KindConfigMismatch, "Analyze", -1,
			fmt.Errorf("%w: %d units for %d channels", ErrChannelMismatch, len(a.units), a.channels))
		return false
	}
	return true
}

func (a *Analyzer) analyzeUnits(planar [][]float32) {
	for ch, u := range a.units {
		if err := u.Analyze(planar[ch]); err != nil {
			a.report(KindConfigMismatch, "Analyze", ch, err)
		}
	}
}

func (a *Analyzer) unit(op string, channel int) (*Unit, bool) {
	if channel < 0 || channel >= len(a.units) {
		a.report(KindInvalidIndex, op, channel,
			fmt.Errorf("%w: %d of %d", ErrInvalidChannel, channel, len(a.units)))
		return nil, false
	}
	return a.units[channel], true
}

// Value reads v on one channel. An invalid channel reads 0.
func (a *Analyzer) Value(v descriptor.Value, channel int, smooth float64, normalized bool) float64 {
	u, ok := a.unit("Value", channel)
	if !ok {
		return 0
	}
	return u.Value(v, smooth, normalized)
}

// AverageValue is the arithmetic mean of Value over every channel.
func (a *Analyzer) AverageValue(v descriptor.Value, smooth float64, normalized bool) float64 {
	if len(a.units) == 0 {
		a.report(KindInvalidIndex, "AverageValue", -1, fmt.Errorf("%w: no channels", ErrInvalidChannel))
		return 0
	}

	var sum float64
	for _, u := range a.units {
		sum += u.Value(v, smooth, normalized)
	}
	return sum / float64(len(a.units))
}

// Values reads b on one channel. An invalid channel reads a single zero.
// The returned slice is only valid until the next read of the same channel.
func (a *Analyzer) Values(b descriptor.Bins, channel int, smooth float64, normalized bool) []float64 {
	u, ok := a.unit("Values", channel)
	if !ok {
		return []float64{0}
	}
	return u.Values(b, smooth, normalized)
}

// AverageValues is the element-wise mean of Values over every channel. It
// returns a new slice.
func (a *Analyzer) AverageValues(b descriptor.Bins, smooth float64, normalized bool) []float64 {
	if len(a.units) == 0 {
		a.report(KindInvalidIndex, "AverageValues", -1, fmt.Errorf("%w: no channels", ErrInvalidChannel))
		return []float64{0}
	}

	var out []float64
	for _, u := range a.units {
		vals := u.Values(b, smooth, normalized)
		if out == nil {
			out = make([]float64, len(vals))
		}
		for i := range min(len(out), len(vals)) {
			out[i] += vals[i]
		}
	}
	n := float64(len(a.units))
	for i := range out {
		out[i] /= n
	}
	return out
}

// OnsetValue reports whether the last block analyzed on channel was an
// onset.
func (a *Analyzer) OnsetValue(channel int) bool {
	u, ok := a.unit("OnsetValue", channel)
	if !ok {
		return false
	}
	return u.Onset()
}

// SetMaxEstimatedValue sets the normalization ceiling of v on channel and
// remembers it so Reset can reapply it to every channel.
func (a *Analyzer) SetMaxEstimatedValue(channel int, v descriptor.Value, ceiling float64) {
	u, ok := a.unit("SetMaxEstimatedValue", channel)
	if !ok {
		return
	}
	u.SetMaxEstimatedValue(v, ceiling)
	if v.Valid() {
		a.stored[v] = ceiling
	}
}

// SetBinsMaxEstimatedValue is SetMaxEstimatedValue for a bins descriptor.
func (a *Analyzer) SetBinsMaxEstimatedValue(channel int, b descriptor.Bins, ceiling float64) {
	u, ok := a.unit("SetBinsMaxEstimatedValue", channel)
	if !ok {
		return
	}
	u.SetBinsMaxEstimatedValue(b, ceiling)
	if b.Valid() {
		a.storedBins[b] = ceiling
	}
}

// StoredMaxEstimatedValues returns a copy of the ceilings Reset reapplies.
func (a *Analyzer) StoredMaxEstimatedValues() map[descriptor.Value]float64 {
	out := make(map[descriptor.Value]float64, len(a.stored))
	for k, v := range a.stored {
		out[k] = v
	}
	return out
}

// SetOnsetsParameters configures the onset detector of channel. Values are
// not validated.
func (a *Analyzer) SetOnsetsParameters(channel int, alpha, silenceThreshold, timeThreshold float64, useTimeThreshold bool) {
	u, ok := a.unit("SetOnsetsParameters", channel)
	if !ok {
		return
	}
	u.Onsets().SetParameters(alpha, silenceThreshold, timeThreshold, useTimeThreshold)
	a.onsetCfg[channel] = OnsetParams{
		Alpha:            alpha,
		SilenceThreshold: silenceThreshold,
		TimeThreshold:    timeThreshold,
		UseTimeThreshold: useTimeThreshold,
	}
}

// OnsetParameters returns the onset configuration of channel.
func (a *Analyzer) OnsetParameters(channel int) (OnsetParams, bool) {
	u, ok := a.unit("OnsetParameters", channel)
	if !ok {
		return OnsetParams{}, false
	}
	d := u.Onsets()
	return OnsetParams{
		Alpha:            d.Alpha(),
		SilenceThreshold: d.SilenceThreshold(),
		TimeThreshold:    d.TimeThreshold(),
		UseTimeThreshold: d.UseTimeThreshold(),
	}, true
}

// ResetOnsets clears the onset history of channel.
func (a *Analyzer) ResetOnsets(channel int) {
	if u, ok := a.unit("ResetOnsets", channel); ok {
		u.Onsets().Reset()
	}
}

// ResetAllOnsets clears the onset history of every channel.
func (a *Analyzer) ResetAllOnsets() {
	for _, u := range a.units {
		u.Onsets().Reset()
	}
}

func (a *Analyzer) SampleRate() int { return a.sampleRate }
func (a *Analyzer) BufferSize() int { return a.bufferSize }
func (a *Analyzer) Channels() int   { return a.channels }

// Exit releases every unit and the engine reference. Further calls are
// no-ops. Setup and Reset fail after Exit.
func (a *Analyzer) Exit() {
	if a.exited {
		return
	}
	a.exited = true
	a.exitUnits()
	a.units = nil
	a.channels = 0
	a.engine.Release()
}

func (a *Analyzer) exitUnits() {
	for _, u := range a.units {
		u.Exit()
	}
}
