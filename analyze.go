// SPDX-License-Identifier: EPL-2.0

package audanalyzer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/ik5/audanalyzer/analyzer"
	"github.com/ik5/audanalyzer/audio"
	"github.com/ik5/audanalyzer/descriptor"
	"github.com/ik5/audanalyzer/dsp"
)

// DefaultBlockSize is the analysis block length in frames used when
// Config.BlockSize is zero.
const DefaultBlockSize = 1024

// Config controls AnalyzeSource. The zero value analyzes every scalar
// descriptor at the source rate in blocks of DefaultBlockSize frames.
type Config struct {
	// BlockSize in frames. Must be even.
	BlockSize int
	// SampleRate resamples the source first when > 0 and different from
	// the source rate.
	SampleRate int
	// Mono averages all channels into one before analysis.
	Mono bool
	// Smoothing is the read-time smoothing factor in [0, 1].
	Smoothing float64
	// Normalized reads values divided by their ceilings.
	Normalized bool
	// Onsets overrides the detector parameters on every channel.
	Onsets *analyzer.OnsetParams
	// Descriptors to read per block, in order. Nil reads all of them.
	Descriptors []descriptor.Value
	// DropTail skips a last block shorter than BlockSize instead of
	// zero padding it.
	DropTail bool
	Logger   *slog.Logger
}

// Frame holds the result of one analysis block.
type Frame struct {
	Index int
	// StartFrame is the position of the block's first frame in the
	// analyzed stream, after resampling.
	StartFrame  int64
	Start       time.Duration
	ValidFrames int
	// Values are channel averages, one per Config.Descriptors entry.
	Values []float64
	// Onsets holds the onset flag of every analyzed channel.
	Onsets []bool
}

// AnyOnset reports whether any channel detected an onset in this block.
func (f Frame) AnyOnset() bool {
	return slices.Contains(f.Onsets, true)
}

// FrameFunc receives every analyzed block. Returning ErrStop ends the
// analysis cleanly, any other error aborts it.
type FrameFunc func(Frame) error

// AnalyzeSource runs src through the optional resampler and downmix, cuts it
// into blocks and hands one Frame per block to fn. It does not close src.
func AnalyzeSource(engine *dsp.Engine, src audio.Source, cfg Config, fn FrameFunc) error {
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	if cfg.Descriptors == nil {
		cfg.Descriptors = descriptor.Values()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	stage := src
	if cfg.SampleRate > 0 && cfg.SampleRate != src.SampleRate() {
		rs, err := audio.NewResampler(stage, cfg.SampleRate)
		if err != nil {
			return fmt.Errorf("resample to %d Hz: %w", cfg.SampleRate, err)
		}
		stage = rs
	}
	if cfg.Mono && stage.Channels() > 1 {
		stage = audio.NewMonoMixer(stage)
	}

	blocks, err := audio.NewBlockReader(stage, cfg.BlockSize, audio.WithPadding(!cfg.DropTail))
	if err != nil {
		return err
	}

	a, err := analyzer.New(engine, analyzer.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Exit()

	rate := blocks.SampleRate()
	if err := a.Setup(rate, cfg.BlockSize, blocks.Channels()); err != nil {
		return err
	}
	if p := cfg.Onsets; p != nil {
		for ch := range a.Channels() {
			a.SetOnsetsParameters(ch, p.Alpha, p.SilenceThreshold, p.TimeThreshold, p.UseTimeThreshold)
		}
	}

	logger.Debug("analysis started",
		"sample_rate", rate,
		"channels", a.Channels(),
		"block_size", cfg.BlockSize,
		"descriptors", len(cfg.Descriptors))

	var pos int64
	for i := 0; ; i++ {
		block, valid, err := blocks.Next()
		if errors.Is(err, io.EOF) {
			logger.Debug("analysis finished", "blocks", i, "frames", pos)
			return nil
		}
		if err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}

		a.Analyze(block)

		f := Frame{
			Index:       i,
			StartFrame:  pos,
			Start:       time.Duration(pos) * time.Second / time.Duration(rate),
			ValidFrames: valid,
			Values:      make([]float64, len(cfg.Descriptors)),
			Onsets:      make([]bool, a.Channels()),
		}
		for j, v := range cfg.Descriptors {
			f.Values[j] = a.AverageValue(v, cfg.Smoothing, cfg.Normalized)
		}
		for ch := range f.Onsets {
			f.Onsets[ch] = a.OnsetValue(ch)
		}
		pos += int64(valid)

		if err := fn(f); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}
