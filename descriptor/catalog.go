// SPDX-License-Identifier: EPL-2.0

package descriptor

// unknownName is the display string for values outside the catalog.
const unknownName = "-"

type valueEntry struct {
	name    string
	ceiling float64
}

// values is indexed by Value. Ceilings are the default max-estimated values
// used for normalization.
var values = [NumValues]valueEntry{
	RMS:              {"rms", 1},
	Power:            {"power", 1},
	ZeroCrossingRate: {"zero_crossing_rate", 1},
	Loudness:         {"loudness", 100},

	PitchYinFrequency:  {"pitch_freq", 4186},
	PitchYinConfidence: {"pitch_conf", 1},

	Dissonance:    {"dissonance", 1},
	HFC:           {"hfc", 2000},
	PitchSalience: {"pitch_salience", 1},

	Inharmonicity: {"inharmonicity", 1},
	OddToEven:     {"odd_to_even", 10},
	StrongPeak:    {"strong_peak", 100},

	SilenceRate20dB: {"silence_rate_20db", 1},
	SilenceRate30dB: {"silence_rate_30db", 1},
	SilenceRate60dB: {"silence_rate_60db", 1},

	EnergyBandLow:    {"energy_band_low", 1},
	EnergyBandMidLow: {"energy_band_mid_low", 1},
	EnergyBandMidHi:  {"energy_band_mid_hi", 1},
	EnergyBandHi:     {"energy_band_hi", 1},

	SpectralRolloff:    {"spectral_rolloff", 22050},
	SpectralEnergy:     {"spectral_energy", 1},
	SpectralEntropy:    {"spectral_entropy", 1},
	SpectralCentroid:   {"spectral_centroid", 11025},
	SpectralComplexity: {"spectral_complexity", 20},
	SpectralFlux:       {"spectral_flux", 1},

	Onset: {"onset", 1},
}

var bins = [NumBins]valueEntry{
	Spectrum:    {"spectrum", 1},
	MelBands:    {"mel_bands", 1},
	MFCC:        {"mfcc", 300},
	BarkBands:   {"bark_bands", 1},
	HPCP:        {"hpcp", 1},
	Tristimulus: {"tristimulus", 1},
}

var (
	valueByName = make(map[string]Value, NumValues)
	binsByName  = make(map[string]Bins, NumBins)
)

func init() {
	for i, e := range values {
		valueByName[e.name] = Value(i)
	}
	for i, e := range bins {
		binsByName[e.name] = Bins(i)
	}
}

// String returns the display name of v, or "-" when v is not in the catalog.
func (v Value) String() string {
	if !v.Valid() {
		return unknownName
	}
	return values[v].name
}

// String returns the display name of b, or "-" when b is not in the catalog.
func (b Bins) String() string {
	if !b.Valid() {
		return unknownName
	}
	return bins[b].name
}

// NameOf is the function form of Value.String.
func NameOf(v Value) string { return v.String() }

// BinsNameOf is the function form of Bins.String.
func BinsNameOf(b Bins) string { return b.String() }

// Parse looks a scalar descriptor up by its exact, case-sensitive display
// name. Unknown names yield None.
func Parse(name string) Value {
	if v, ok := valueByName[name]; ok {
		return v
	}
	return None
}

// ParseBins looks a vector descriptor up by its exact, case-sensitive display
// name. Unknown names yield NoneBins.
func ParseBins(name string) Bins {
	if b, ok := binsByName[name]; ok {
		return b
	}
	return NoneBins
}

// Values returns every scalar descriptor in catalog order.
func Values() []Value {
	out := make([]Value, NumValues)
	for i := range out {
		out[i] = Value(i)
	}
	return out
}

// AllBins returns every vector descriptor in catalog order.
func AllBins() []Bins {
	out := make([]Bins, NumBins)
	for i := range out {
		out[i] = Bins(i)
	}
	return out
}

// DefaultMaxEstimatedValue returns the built-in normalization ceiling of v,
// or 0 for values outside the catalog.
func DefaultMaxEstimatedValue(v Value) float64 {
	if !v.Valid() {
		return 0
	}
	return values[v].ceiling
}

// DefaultBinsMaxEstimatedValue returns the built-in normalization ceiling of
// b, or 0 for values outside the catalog.
func DefaultBinsMaxEstimatedValue(b Bins) float64 {
	if !b.Valid() {
		return 0
	}
	return bins[b].ceiling
}
