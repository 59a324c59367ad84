// Package sampler draws dataset indices with replacement so that every class
// carries the same total probability mass, whatever its raw frequency.
package sampler

import (
	"iter"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type Sampler struct {
	length  int
	counts  []int
	weights []float64

	// dist is not safe for concurrent use; draws hold mu.
	mu   sync.Mutex
	dist distuv.Categorical
}

// New builds a sampler over one label per dataset item. A nil src uses the
// package-level generator of golang.org/x/exp/rand.
func New[K comparable](labels []K, mode Mode, src rand.Source) (*Sampler, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}

	classOf := make([]int, len(labels))
	classIdx := map[K]int{}
	counts := []int{}
	for i, l := range labels {
		c, ok := classIdx[l]
		if !ok {
			c = len(counts)
			classIdx[l] = c
			counts = append(counts, 0)
		}
		counts[c]++
		classOf[i] = c
	}

	length, err := mode.length(counts, len(labels))
	if err != nil {
		return nil, err
	}

	k := float64(len(counts))
	weights := make([]float64, len(labels))
	for i, c := range classOf {
		weights[i] = 1 / float64(counts[c]) / k
	}

	return &Sampler{
		length:  length,
		counts:  counts,
		weights: weights,
		dist:    distuv.NewCategorical(weights, src),
	}, nil
}

// FromItems extracts a label from every item and builds a sampler over them.
func FromItems[T any, K comparable](items []T, mode Mode, label func(T) K, src rand.Source) (*Sampler, error) {
	if label == nil {
		return nil, errors.New("label function is nil")
	}
	labels := make([]K, len(items))
	for i, it := range items {
		labels[i] = label(it)
	}
	return New(labels, mode, src)
}

// Len returns the number of indices in one draw.
func (s *Sampler) Len() int {
	return s.length
}

// Classes returns the number of distinct labels.
func (s *Sampler) Classes() int {
	return len(s.counts)
}

// Counts returns the item count per class. Classes are ordered by their
// first appearance in the labels, not sorted.
func (s *Sampler) Counts() []int {
	return append([]int(nil), s.counts...)
}

// Weights returns the per-item draw probabilities. Every class sums to
// 1/Classes().
func (s *Sampler) Weights() []float64 {
	return append([]float64(nil), s.weights...)
}

// Indices performs a fresh draw. Two calls return independent sequences.
func (s *Sampler) Indices() []int {
	ret := make([]int, s.length)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range ret {
		ret[i] = s.sample()
	}
	return ret
}

// All yields one draw lazily. Every range over the returned sequence starts a
// new, independent draw.
func (s *Sampler) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < s.length; i++ {
			s.mu.Lock()
			idx := s.sample()
			s.mu.Unlock()
			if !yield(idx) {
				return
			}
		}
	}
}

// sample must be called with mu held.
func (s *Sampler) sample() int {
	return int(s.dist.Rand())
}
