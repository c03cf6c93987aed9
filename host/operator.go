// SPDX-License-Identifier: EPL-2.0

package host

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audanalyzer/analyzer"
	"github.com/ik5/audanalyzer/descriptor"
	"github.com/ik5/audanalyzer/dsp"
)

// OutputRate is the sample rate the operator advertises for its output
// channels.
const OutputRate = 60

// Scope selects which channels onset parameters and resets apply to.
type Scope int

const (
	// ScopeFirstChannel applies onset parameters and resets to channel 0
	// only.
	ScopeFirstChannel Scope = iota
	// ScopeAllChannels applies them to every channel.
	ScopeAllChannels
)

// Input is what the host hands over on every cook.
type Input struct {
	SampleRate int
	Block      *goaudio.Float32Buffer
}

// InfoChannel is a named diagnostic value.
type InfoChannel struct {
	Name  string
	Value float64
}

// Option configures an Operator.
type Option func(*Operator)

// WithOnsetScope selects the channels onset parameters and the
// Resetonsets pulse apply to. The default is ScopeFirstChannel.
func WithOnsetScope(s Scope) Option {
	return func(o *Operator) { o.scope = s }
}

// WithLogger sets the logger of the operator and its analyzer.
func WithLogger(l *slog.Logger) Option {
	return func(o *Operator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithAnalyzerOptions passes extra options to the analyzer.
func WithAnalyzerOptions(opts ...analyzer.Option) Option {
	return func(o *Operator) { o.analyzerOpts = append(o.analyzerOpts, opts...) }
}

// Operator adapts an analyzer.Analyzer to a host that cooks once per frame:
// it takes one multichannel block and the current parameters, and produces
// one output channel per scalar descriptor.
type Operator struct {
	analyzer     *analyzer.Analyzer
	analyzerOpts []analyzer.Option
	logger       *slog.Logger
	scope        Scope

	names   []string
	values  []descriptor.Value
	outputs []float64

	executeCount int
	offset       float64
}

// outputValues lists the output descriptors: the catalog without the onset
// flag, which is read per channel through the analyzer instead.
func outputValues() []descriptor.Value {
	return slices.DeleteFunc(descriptor.Values(), func(v descriptor.Value) bool {
		return v == descriptor.Onset
	})
}

// New returns an operator analyzing with engine.
func New(engine *dsp.Engine, opts ...Option) (*Operator, error) {
	o := &Operator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		values: outputValues(),
	}
	for _, opt := range opts {
		opt(o)
	}

	aopts := append([]analyzer.Option{analyzer.WithLogger(o.logger)}, o.analyzerOpts...)
	a, err := analyzer.New(engine, aopts...)
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	o.analyzer = a

	o.names = make([]string, len(o.values))
	for i, v := range o.values {
		o.names[i] = v.String()
	}
	o.outputs = make([]float64, len(o.values))

	return o, nil
}

// Execute runs one cook: it configures the analyzer for the block, applies
// the onset parameters, analyzes the block and refreshes the outputs with
// the channel-averaged, smoothed and unnormalized descriptor values.
//
// The execute counter advances on every call. When the block cannot be
// analyzed the previous outputs are kept and an error is returned.
func (o *Operator) Execute(in Input, p Params) error {
	o.executeCount++

	if in.Block == nil || in.Block.Format == nil || in.Block.Format.NumChannels <= 0 {
		return ErrNoInput
	}
	channels := in.Block.Format.NumChannels
	frames := len(in.Block.Data) / channels
	if frames%2 != 0 {
		o.logger.Warn("host: odd buffer size, block skipped", slog.Int("frames", frames))
		return fmt.Errorf("%w: %d frames", ErrOddBufferSize, frames)
	}

	if err := o.analyzer.Setup(in.SampleRate, frames, channels); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	o.applyOnsetParams(p)
	o.analyzer.Analyze(in.Block)

	for i, v := range o.values {
		o.outputs[i] = o.analyzer.AverageValue(v, p.Smoothing, false)
	}
	return nil
}

func (o *Operator) applyOnsetParams(p Params) {
	if o.scope == ScopeAllChannels {
		for ch := range o.analyzer.Channels() {
			o.analyzer.SetOnsetsParameters(ch, p.Alpha, p.SilenceThreshold, p.TimeThreshold, true)
		}
		return
	}
	o.analyzer.SetOnsetsParameters(0, p.Alpha, p.SilenceThreshold, p.TimeThreshold, true)
}

// OutputChannelNames returns the output channel names in catalog order.
func (o *Operator) OutputChannelNames() []string {
	return append([]string(nil), o.names...)
}

// Outputs returns the values of the last successful cook, aligned with
// OutputChannelNames. The slice is owned by the operator.
func (o *Operator) Outputs() []float64 { return o.outputs }

// Output returns the value of one output channel by name.
func (o *Operator) Output(name string) (float64, bool) {
	v := descriptor.Parse(name)
	if v == descriptor.None {
		return 0, false
	}
	for i, ov := range o.values {
		if ov == v {
			return o.outputs[i], true
		}
	}
	return 0, false
}

// Pulse triggers a momentary parameter.
func (o *Operator) Pulse(name string) error {
	if name != PulseResetOnsets {
		return fmt.Errorf("%w: %q", ErrUnknownPulse, name)
	}

	if o.scope == ScopeAllChannels {
		o.analyzer.ResetAllOnsets()
	} else {
		o.analyzer.ResetOnsets(0)
	}
	return nil
}

// InfoChannels reports the execute counter and the offset.
func (o *Operator) InfoChannels() []InfoChannel {
	return []InfoChannel{
		{Name: "executeCount", Value: float64(o.executeCount)},
		{Name: "offset", Value: o.offset},
	}
}

// ParameterDefs lists the parameters the operator exposes.
func (o *Operator) ParameterDefs() []ParameterDef {
	return append([]ParameterDef(nil), parameterDefs...)
}

// Analyzer exposes the underlying analyzer for per-channel reads.
func (o *Operator) Analyzer() *analyzer.Analyzer { return o.analyzer }

// Close releases the analyzer.
func (o *Operator) Close() error {
	o.analyzer.Exit()
	return nil
}
