// SPDX-License-Identifier: EPL-2.0

package descriptor

// Value identifies a scalar descriptor.
type Value int

// Scalar descriptors in catalog order. The order is stable and is the order
// used by hosts when laying out output channels.
const (
	RMS Value = iota
	Power
	ZeroCrossingRate
	Loudness

	PitchYinFrequency
	PitchYinConfidence

	Dissonance
	HFC
	PitchSalience

	Inharmonicity
	OddToEven
	StrongPeak

	SilenceRate20dB
	SilenceRate30dB
	SilenceRate60dB

	EnergyBandLow
	EnergyBandMidLow
	EnergyBandMidHi
	EnergyBandHi

	SpectralRolloff
	SpectralEnergy
	SpectralEntropy
	SpectralCentroid
	SpectralComplexity
	SpectralFlux

	Onset

	// NumValues is the number of scalar descriptors.
	NumValues int = iota
)

// None is returned by Parse for names outside the catalog.
const None Value = -1

// Bins identifies a vector-valued descriptor.
type Bins int

// Vector descriptors in catalog order.
const (
	Spectrum Bins = iota
	MelBands
	MFCC
	BarkBands
	HPCP
	Tristimulus

	// NumBins is the number of vector descriptors.
	NumBins int = iota
)

// NoneBins is returned by ParseBins for names outside the catalog.
const NoneBins Bins = -1

// Fixed element counts of the vector descriptors that do not depend on the
// buffer size.
const (
	MelBandsCount    = 24
	MFCCCount        = 13
	BarkBandsCount   = 27
	HPCPCount        = 12
	TristimulusCount = 3
)

// Valid reports whether v is a catalog entry.
func (v Value) Valid() bool { return v >= 0 && int(v) < NumValues }

// Valid reports whether b is a catalog entry.
func (b Bins) Valid() bool { return b >= 0 && int(b) < NumBins }

// BinsSize returns the element count of b for an analyzer configured with
// bufferSize samples per block. Unknown descriptors have size 0.
func BinsSize(b Bins, bufferSize int) int {
	switch b {
	case Spectrum:
		if bufferSize < 2 {
			return 0
		}
		return bufferSize/2 + 1
	case MelBands:
		return MelBandsCount
	case MFCC:
		return MFCCCount
	case BarkBands:
		return BarkBandsCount
	case HPCP:
		return HPCPCount
	case Tristimulus:
		return TristimulusCount
	default:
		return 0
	}
}
