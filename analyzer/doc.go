// SPDX-License-Identifier: EPL-2.0

// Package analyzer runs the descriptor graph over streaming multichannel
// audio.
//
// An Analyzer owns one Unit per channel. Each Unit runs a dsp.Extractor over
// every block, feeds the block novelty to an onset.Detector and keeps one
// smoother per descriptor. Smoothing is applied when values are read, so the
// same history can be read with different factors.
//
// The analyzer never fails on the per-block path. Blocks that do not match
// the configuration are skipped and channel indices out of range read zero.
// Each of these conditions raises a Diagnostic that is logged and handed to
// the optional DiagnosticHandler.
package analyzer
