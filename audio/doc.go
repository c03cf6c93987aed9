// SPDX-License-Identifier: EPL-2.0

// Package audio provides the streaming input side of the analyzer.
//
//   - Source is a stream of interleaved float32 PCM in [-1, 1]
//   - Registry maps format keys to decoders
//   - Resampler changes the sample rate with Catmull-Rom interpolation
//   - MonoMixer averages all channels into one
//   - BlockReader cuts a Source into fixed-size go-audio blocks
//
// Stages chain because each of them is itself a Source:
//
//	src, _ := registry.Open(audio.FormatOf(path), f)
//	rs, _ := audio.NewResampler(src, 44100)
//	blocks, _ := audio.NewBlockReader(audio.NewMonoMixer(rs), 1024)
//	for {
//	    block, _, err := blocks.Next()
//	    if err != nil {
//	        break
//	    }
//	    a.Analyze(block)
//	}
//
// ReadSamples returns io.EOF when the stream is finished, possibly together
// with the last samples.
package audio
