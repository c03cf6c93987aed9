// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes integer PCM WAV files through
// github.com/go-audio/wav.
//
// Decoder accepts 8, 16, 24 and 32 bit PCM with any channel count and
// produces float32 samples in [-1, 1]. IEEE float and compressed WAVE
// payloads are rejected with ErrUnsupportedEncoding. The go-audio decoder
// needs to seek, so inputs that cannot are buffered in memory first.
//
//	f, _ := os.Open("take.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	blocks, _ := audio.NewBlockReader(src, 1024)
//
// Writer is the encoding side and WriteClicks renders onset positions as an
// audible click track, which makes it easy to check detections by ear:
//
//	out, _ := os.Create("clicks.wav")
//	defer out.Close()
//	err := wav.WriteClicks(out, 44100, totalFrames, onsetFrames)
package wav
