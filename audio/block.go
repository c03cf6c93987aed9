// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
)

// BlockReader cuts a Source into interleaved blocks of a fixed frame count,
// the shape the analyzer consumes.
type BlockReader struct {
	src    Source
	frames int
	pad    bool
	buf    *goaudio.Float32Buffer
	done   bool
	read   int64
}

// BlockOption configures a BlockReader.
type BlockOption func(*BlockReader)

// WithPadding controls the final partial block. When enabled (the default)
// it is zero padded to a full block; otherwise it is dropped.
func WithPadding(pad bool) BlockOption {
	return func(b *BlockReader) { b.pad = pad }
}

// NewBlockReader returns a reader producing blocks of frames frames.
func NewBlockReader(src Source, frames int, opts ...BlockOption) (*BlockReader, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, frames)
	}

	ch := max(src.Channels(), 1)
	b := &BlockReader{
		src:    src,
		frames: frames,
		pad:    true,
		buf: &goaudio.Float32Buffer{
			Format: &goaudio.Format{NumChannels: ch, SampleRate: src.SampleRate()},
			Data:   make([]float32, frames*ch),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Next returns the next block and how many of its frames came from the
// source. The block is reused by the following call. At the end of the
// stream Next returns io.EOF.
func (b *BlockReader) Next() (*goaudio.Float32Buffer, int, error) {
	if b.done {
		return nil, 0, io.EOF
	}

	data := b.buf.Data
	ch := b.buf.Format.NumChannels
	filled := 0
	for filled < len(data) {
		n, err := b.src.ReadSamples(data[filled:])
		filled += n
		if errors.Is(err, io.EOF) {
			b.done = true
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read block: %w", err)
		}
		if n == 0 {
			return nil, 0, ErrNoProgress
		}
	}

	valid := filled / ch
	b.read += int64(valid)
	switch {
	case valid == b.frames:
		return b.buf, valid, nil
	case valid == 0 || !b.pad:
		return nil, 0, io.EOF
	}

	clear(data[valid*ch:])
	return b.buf, valid, nil
}

// BlockSize returns the number of frames per block.
func (b *BlockReader) BlockSize() int { return b.frames }

// FramesRead returns the number of source frames consumed so far.
func (b *BlockReader) FramesRead() int64 { return b.read }

func (b *BlockReader) SampleRate() int { return b.buf.Format.SampleRate }
func (b *BlockReader) Channels() int   { return b.buf.Format.NumChannels }

func (b *BlockReader) Close() error {
	if err := b.src.Close(); err != nil {
		return fmt.Errorf("block reader close: %w", err)
	}
	return nil
}
