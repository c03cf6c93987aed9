// SPDX-License-Identifier: EPL-2.0

package host

// Parameter names as the host displays them.
const (
	ParamSmoothing        = "Smoothing"
	ParamAlpha            = "Alpha"
	ParamTimeThreshold    = "Timethreshold"
	ParamSilenceThreshold = "Silencethreshold"
	PulseResetOnsets      = "Resetonsets"
)

// Params are the values of the host parameters for one execute call.
type Params struct {
	Smoothing        float64 // read-time smoothing factor, 0..1
	Alpha            float64 // onset sensitivity, 0..1
	TimeThreshold    float64 // minimum onset gap in milliseconds, 0..1000
	SilenceThreshold float64 // onset floor, 0..1
}

// ParamKind is the widget a host shows for a parameter.
type ParamKind int

const (
	KindFloat ParamKind = iota
	KindPulse
)

func (k ParamKind) String() string {
	if k == KindPulse {
		return "pulse"
	}
	return "float"
}

// ParameterDef describes one host parameter. Min and Max are slider ranges,
// not limits: values outside them are passed through unchanged.
type ParameterDef struct {
	Name    string
	Label   string
	Kind    ParamKind
	Default float64
	Min     float64
	Max     float64
}

var parameterDefs = []ParameterDef{
	{Name: ParamSmoothing, Label: "Smoothing", Kind: KindFloat, Max: 1},
	{Name: ParamAlpha, Label: "Alpha", Kind: KindFloat, Max: 1},
	{Name: ParamTimeThreshold, Label: "Time Threshold", Kind: KindFloat, Max: 1000},
	{Name: ParamSilenceThreshold, Label: "Silence Threshold", Kind: KindFloat, Max: 1},
	{Name: PulseResetOnsets, Label: "Reset Onsets", Kind: KindPulse},
}

// DefaultParams returns the parameter defaults.
func DefaultParams() Params {
	return Params{}
}

// Set assigns a float parameter by its host name. It reports false for an
// unknown name.
func (p *Params) Set(name string, v float64) bool {
	switch name {
	case ParamSmoothing:
		p.Smoothing = v
	case ParamAlpha:
		p.Alpha = v
	case ParamTimeThreshold:
		p.TimeThreshold = v
	case ParamSilenceThreshold:
		p.SilenceThreshold = v
	default:
		return false
	}
	return true
}
