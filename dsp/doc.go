// SPDX-License-Identifier: EPL-2.0

// Package dsp computes the raw descriptor values of one audio block.
//
// The descriptor graph is exposed as the Extractor interface so that the
// analysis core can run against any toolkit, including deterministic fakes in
// tests. The native implementation uses gonum for the FFT and the cepstral
// DCT, and go-dsp for the Hann analysis window.
//
// Extractors are created through an Engine, the process-scoped handle that
// caches immutable tables and is shared by every analyzer in the process:
//
//	engine := dsp.NewEngine()
//	defer engine.Release()
//
//	x, err := engine.NewExtractor(44100, 1024)
//	if err != nil {
//	    // invalid configuration or closed engine
//	}
//
//	var frame dsp.Frame
//	err = x.Compute(samples, &frame)
//	rms := frame.Values[descriptor.RMS]
//
// Each additional owner calls Retain and later Release. Once the last
// reference is released the engine is closed and NewExtractor fails with
// ErrEngineClosed.
package dsp
