// SPDX-License-Identifier: EPL-2.0

// Command audanalyze prints per-block audio descriptors of a file as CSV.
//
//	audanalyze [flags] <input.{wav|aiff|mp3|ogg}>
//
// Every row is one analysis block: its index, start time in seconds, the
// number of real (not padded) frames, whether any channel detected an onset,
// then one column per descriptor averaged over channels. With -clicks the
// detected onsets are also rendered as a click track WAV.
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ik5/audanalyzer"
	"github.com/ik5/audanalyzer/analyzer"
	"github.com/ik5/audanalyzer/audio"
	"github.com/ik5/audanalyzer/descriptor"
	"github.com/ik5/audanalyzer/dsp"
	"github.com/ik5/audanalyzer/formats/aiff"
	"github.com/ik5/audanalyzer/formats/mp3"
	"github.com/ik5/audanalyzer/formats/vorbis"
	"github.com/ik5/audanalyzer/formats/wav"
)

var errUsage = errors.New("usage: audanalyze [flags] <input.{wav|aiff|mp3|ogg}>")

type options struct {
	input       string
	output      string
	clicks      string
	format      string
	descriptors string
	rate        int
	block       int
	mono        bool
	normalized  bool
	dropTail    bool
	verbose     bool
	smoothing   float64
	alpha       float64
	silence     float64
	timeMillis  float64
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("audanalyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.output, "o", "", "write CSV to this file instead of stdout")
	fs.StringVar(&o.clicks, "clicks", "", "write detected onsets as a click track WAV")
	fs.StringVar(&o.format, "format", "", "input format (wav, aiff, mp3, ogg); guessed from the extension when empty")
	fs.StringVar(&o.descriptors, "descriptors", "", "comma separated descriptor names; all when empty")
	fs.IntVar(&o.rate, "rate", 0, "resample to this rate in Hz before analysis; 0 keeps the source rate")
	fs.IntVar(&o.block, "block", audanalyzer.DefaultBlockSize, "analysis block size in frames, must be even")
	fs.BoolVar(&o.mono, "mono", false, "downmix to mono before analysis")
	fs.BoolVar(&o.normalized, "normalized", false, "print values divided by their estimated maximum")
	fs.BoolVar(&o.dropTail, "drop-tail", false, "skip a short last block instead of zero padding it")
	fs.BoolVar(&o.verbose, "v", false, "log debug information to stderr")
	fs.Float64Var(&o.smoothing, "smoothing", 0, "smoothing factor in [0, 1]")
	fs.Float64Var(&o.alpha, "alpha", 0.1, "onset threshold weight of the recent novelty average")
	fs.Float64Var(&o.silence, "silence", 0.02, "onset silence threshold")
	fs.Float64Var(&o.timeMillis, "timethreshold", 100, "minimum milliseconds between onsets; 0 disables")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		return o, errUsage
	}
	o.input = fs.Arg(0)
	if o.format == "" {
		o.format = audio.FormatOf(o.input)
	}
	return o, nil
}

func parseDescriptors(list string) ([]descriptor.Value, error) {
	if list == "" {
		return descriptor.Values(), nil
	}

	var out []descriptor.Value
	for name := range strings.SplitSeq(list, ",") {
		v := descriptor.Parse(strings.TrimSpace(name))
		if v == descriptor.None {
			return nil, fmt.Errorf("unknown descriptor %q", name)
		}
		out = append(out, v)
	}
	return out, nil
}

func newRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	return reg
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	descs, err := parseDescriptors(o.descriptors)
	if err != nil {
		return err
	}

	in, err := os.Open(o.input)
	if err != nil {
		return err
	}
	defer in.Close()

	src, err := newRegistry().Open(o.format, in)
	if err != nil {
		return err
	}
	defer src.Close()

	out := stdout
	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	header := []string{"block", "time", "frames", "onset"}
	for _, v := range descs {
		header = append(header, v.String())
	}
	if err := w.Write(header); err != nil {
		return err
	}

	engine := dsp.NewEngine()
	defer engine.Release()

	cfg := audanalyzer.Config{
		BlockSize:   o.block,
		SampleRate:  o.rate,
		Mono:        o.mono,
		Smoothing:   o.smoothing,
		Normalized:  o.normalized,
		Descriptors: descs,
		DropTail:    o.dropTail,
		Logger:      logger,
		Onsets: &analyzer.OnsetParams{
			Alpha:            o.alpha,
			SilenceThreshold: o.silence,
			TimeThreshold:    o.timeMillis,
			UseTimeThreshold: o.timeMillis > 0,
		},
	}

	var (
		onsets []int
		frames int
		row    = make([]string, len(header))
	)
	err = audanalyzer.AnalyzeSource(engine, src, cfg, func(f audanalyzer.Frame) error {
		row[0] = strconv.Itoa(f.Index)
		row[1] = strconv.FormatFloat(f.Start.Seconds(), 'f', 6, 64)
		row[2] = strconv.Itoa(f.ValidFrames)
		row[3] = "0"
		if f.AnyOnset() {
			row[3] = "1"
			onsets = append(onsets, int(f.StartFrame))
		}
		for i, v := range f.Values {
			row[4+i] = strconv.FormatFloat(v, 'g', 6, 64)
		}
		frames += f.ValidFrames
		return w.Write(row)
	})
	if err != nil {
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	logger.Info("analyzed", "input", o.input, "frames", frames, "onsets", len(onsets))

	if o.clicks == "" {
		return nil
	}

	rate := src.SampleRate()
	if o.rate > 0 {
		rate = o.rate
	}
	cf, err := os.Create(o.clicks)
	if err != nil {
		return err
	}
	defer cf.Close()

	return wav.WriteClicks(cf, rate, frames, onsets)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "audanalyze:", err)
		os.Exit(1)
	}
}
