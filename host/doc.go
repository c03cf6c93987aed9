// SPDX-License-Identifier: EPL-2.0

// Package host exposes the analyzer the way a frame-cooking host operator
// sees it: a fixed parameter set, one execute call per cook, one output
// channel per scalar descriptor in catalog order (the onset flag excluded)
// and a pair of info channels.
//
// Onset parameters and the Resetonsets pulse apply to channel 0 by default.
// WithOnsetScope(ScopeAllChannels) applies them to every channel instead.
package host
