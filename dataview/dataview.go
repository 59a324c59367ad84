// Package dataview exposes a collection in the order produced by an index
// source, typically a *sampler.Sampler.
package dataview

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrOutOfRange = errors.New("index out of range")

// IndexSource produces a finite sequence of indices. Indices may return a
// different sequence on every call.
type IndexSource interface {
	Len() int
	Indices() []int
}

type Collection[T any] interface {
	Len() int
	At(i int) T
}

// Slice adapts a plain slice to Collection.
type Slice[T any] []T

func (s Slice[T]) Len() int   { return len(s) }
func (s Slice[T]) At(i int) T { return s[i] }

type Mode int

const (
	// Snapshot keeps one drawn sequence for a whole epoch, until BeginEpoch.
	Snapshot Mode = iota
	// Regenerate draws a new sequence on every lookup. Two lookups in the same
	// pass do not share a mapping, so items may repeat or be skipped
	// differently than a single draw would.
	Regenerate
)

// View does not own data; it is borrowed for the lifetime of the view.
type View[T any] struct {
	data Collection[T]
	src  IndexSource
	mode Mode

	mu    sync.Mutex
	epoch []int
}

func New[T any](data Collection[T], src IndexSource, mode Mode) *View[T] {
	return &View[T]{
		data: data,
		src:  src,
		mode: mode,
	}
}

func (v *View[T]) Len() int {
	return v.src.Len()
}

// At returns the item at position p of the sampled order.
func (v *View[T]) At(p int) (T, error) {
	var zero T
	if p < 0 || p >= v.Len() {
		return zero, errors.Wrapf(ErrOutOfRange, "position %d, length %d", p, v.Len())
	}
	var seq []int
	if v.mode == Regenerate {
		seq = v.src.Indices()
	} else {
		v.mu.Lock()
		if v.epoch == nil {
			v.epoch = v.src.Indices()
		}
		seq = v.epoch
		v.mu.Unlock()
	}
	if p >= len(seq) {
		return zero, errors.Wrapf(ErrOutOfRange, "position %d, source drew only %d indices", p, len(seq))
	}
	idx := seq[p]
	if idx < 0 || idx >= v.data.Len() {
		return zero, errors.Wrapf(ErrOutOfRange, "sampled index %d, collection length %d", idx, v.data.Len())
	}
	return v.data.At(idx), nil
}

// BeginEpoch draws the mapping for the next pass and returns a copy of it.
func (v *View[T]) BeginEpoch() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.epoch = v.src.Indices()
	return append([]int(nil), v.epoch...)
}

// Snapshot returns a copy of the current epoch's mapping, drawing one if no
// epoch was started yet.
func (v *View[T]) Snapshot() []int {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.epoch == nil {
		v.epoch = v.src.Indices()
	}
	return append([]int(nil), v.epoch...)
}
