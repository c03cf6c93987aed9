// SPDX-License-Identifier: EPL-2.0

package audanalyzer

import "errors"

// ErrStop can be returned by a FrameFunc to end AnalyzeSource early without
// an error.
var ErrStop = errors.New("stop analysis")
