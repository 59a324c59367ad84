package stats

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var ErrNoMeter = errors.New("no such meter")

// Tracker creates a Meter per key on first update. The Meters it hands out
// are not synchronised; callers updating from several goroutines should go
// through the Tracker.
type Tracker struct {
	prefix string
	format string

	mu     sync.Mutex
	meters map[string]*Meter
	keys   []string
}

func NewTracker(prefix, format string) *Tracker {
	return &Tracker{
		prefix: prefix,
		format: format,
		meters: map[string]*Meter{},
	}
}

func (t *Tracker) Update(key string, val float64, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.update(key, val, n)
}

// UpdateMap updates one meter per entry. Keys first seen here are registered
// in map iteration order.
func (t *Tracker) UpdateMap(vals map[string]float64, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range vals {
		t.update(k, v, n)
	}
}

func (t *Tracker) update(key string, val float64, n int) {
	m, ok := t.meters[key]
	if !ok {
		m = NewMeter(key, t.format)
		t.meters[key] = m
		t.keys = append(t.keys, key)
	}
	m.Update(val, n)
}

// Meter returns the meter for key. It never creates one.
func (t *Tracker) Meter(key string) (*Meter, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.meters[key]
	if !ok {
		return nil, errors.Wrapf(ErrNoMeter, "%q", key)
	}
	return m, nil
}

// Keys returns the registered keys in registration order.
func (t *Tracker) Keys() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.keys...)
}

// Reset zeroes every meter but keeps them registered.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, m := range t.meters {
		m.Reset()
	}
}

func (t *Tracker) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	parts := make([]string, len(t.keys))
	for i, k := range t.keys {
		parts[i] = t.prefix + t.meters[k].String()
	}
	return strings.Join(parts, " | ")
}
