// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"fmt"
	"sync"

	"github.com/mjibson/go-dsp/window"
)

// Engine is the process-scoped handle of the analysis toolkit. It owns the
// immutable tables (analysis windows, filterbanks) shared by every extractor
// it creates, and is reference counted so that several analyzers can share
// it. The engine closes when the last reference is released.
//
// Engine methods are safe for concurrent use. Extractors are not.
type Engine struct {
	mtx    *sync.Mutex
	refs   int
	closed bool

	windows map[int][]float64
	banks   map[bankKey]*filterbank
}

type bankKey struct {
	kind       bankKind
	sampleRate int
	bufferSize int
}

// NewEngine returns an open engine holding one reference.
func NewEngine() *Engine {
	return &Engine{
		mtx:     &sync.Mutex{},
		refs:    1,
		windows: make(map[int][]float64),
		banks:   make(map[bankKey]*filterbank),
	}
}

// Retain adds a reference. It fails with ErrEngineClosed once the engine was
// fully released.
func (e *Engine) Retain() error {
	if e == nil {
		return ErrEngineClosed
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	e.refs++
	return nil
}

// Release drops a reference. Releasing the last reference closes the engine
// and frees its shared tables. Extra releases are ignored.
func (e *Engine) Release() {
	if e == nil {
		return
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return
	}
	e.refs--
	if e.refs <= 0 {
		e.closed = true
		e.windows = nil
		e.banks = nil
	}
}

// Closed reports whether the engine was fully released.
func (e *Engine) Closed() bool {
	if e == nil {
		return true
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.closed
}

// Refs returns the current reference count.
func (e *Engine) Refs() int {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.refs
}

// NewExtractor builds the native descriptor graph for blocks of bufferSize
// samples at sampleRate.
func (e *Engine) NewExtractor(sampleRate, bufferSize int) (Extractor, error) {
	if err := validate(sampleRate, bufferSize); err != nil {
		return nil, err
	}

	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}

	return newNativeExtractor(sampleRate, bufferSize,
		e.hannLocked(bufferSize),
		e.bankLocked(melBank, sampleRate, bufferSize),
		e.bankLocked(barkBank, sampleRate, bufferSize),
	), nil
}

// Factory returns NewExtractor as an ExtractorFactory.
func (e *Engine) Factory() ExtractorFactory {
	return e.NewExtractor
}

func (e *Engine) hannLocked(n int) []float64 {
	if w, ok := e.windows[n]; ok {
		return w
	}
	w := window.Hann(n)
	e.windows[n] = w
	return w
}

func (e *Engine) bankLocked(kind bankKind, sampleRate, bufferSize int) *filterbank {
	key := bankKey{kind: kind, sampleRate: sampleRate, bufferSize: bufferSize}
	if b, ok := e.banks[key]; ok {
		return b
	}

	var b *filterbank
	switch kind {
	case melBank:
		b = newMelFilterbank(sampleRate, bufferSize)
	case barkBank:
		b = newBarkFilterbank(sampleRate, bufferSize)
	}
	e.banks[key] = b
	return b
}

func validate(sampleRate, bufferSize int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, sampleRate)
	}
	if bufferSize < 2 || bufferSize%2 != 0 {
		return fmt.Errorf("%w: buffer size %d", ErrInvalidConfig, bufferSize)
	}
	return nil
}
