// SPDX-License-Identifier: EPL-2.0

// Package audanalyzer extracts real-time audio descriptors (RMS, pitch,
// spectral shape, MFCC, onsets and more) from multichannel audio.
//
// The work is split across subpackages:
//   - descriptor: the catalog of scalar and vector descriptors
//   - dsp: the shared engine and the per-block descriptor graph
//   - smoothing: read-time smoothing and normalization
//   - onset: the adaptive onset detector
//   - analyzer: per-channel units and the multichannel Analyzer
//   - host: an operator surface for hosts that cook once per block
//   - audio and formats/...: decoding, resampling and block cutting
//
// # Quick Start
//
// AnalyzeSource wires a decoded stream to an Analyzer and reports one Frame
// per block:
//
//	f, _ := os.Open("drums.wav")
//	src, _ := wav.Decoder{}.Decode(f)
//
//	engine := dsp.NewEngine()
//	defer engine.Release()
//
//	err := audanalyzer.AnalyzeSource(engine, src, audanalyzer.Config{
//	    Mono:        true,
//	    Descriptors: []descriptor.Value{descriptor.RMS, descriptor.PitchYinFrequency},
//	}, func(fr audanalyzer.Frame) error {
//	    fmt.Println(fr.Start, fr.Values, fr.AnyOnset())
//	    return nil
//	})
//
// Hosts that already deliver blocks use analyzer.Analyzer directly, or
// host.Operator when they want parameters and output channels in catalog
// order.
package audanalyzer
