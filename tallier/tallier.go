// Package tallier counts events over a sliding time window.
package tallier

import (
	"time"

	"github.com/pkg/errors"
)

// bucket holds the tallies of one bucketSize-long slot; slot numbers count
// bucketSize periods since the Unix epoch.
type bucket struct {
	slot  int64
	count int64
}

type Tallier struct {
	bucketSize time.Duration
	window     time.Duration
	buckets    []bucket
	now        func() time.Time
}

// New returns a Tallier that keeps window worth of counts in buckets of
// bucketSize. A window that is not a multiple of bucketSize is rounded down.
func New(bucketSize, window time.Duration) (*Tallier, error) {
	if bucketSize <= 0 {
		return nil, errors.Errorf("bucket size must be positive, got %v", bucketSize)
	}
	if window < bucketSize {
		return nil, errors.Errorf("window %v is shorter than bucket size %v", window, bucketSize)
	}
	n := window / bucketSize
	return &Tallier{
		bucketSize: bucketSize,
		window:     n * bucketSize,
		buckets:    make([]bucket, n),
		now:        time.Now,
	}, nil
}

// WithClock replaces the time source. Only meant for tests.
func (t *Tallier) WithClock(now func() time.Time) *Tallier {
	t.now = now
	return t
}

func (t *Tallier) slotAt(at time.Time) int64 {
	return at.UnixNano() / int64(t.bucketSize)
}

func (t *Tallier) Tally() {
	t.TallyN(1)
}

func (t *Tallier) TallyN(n int64) {
	slot := t.slotAt(t.now())
	b := &t.buckets[slot%int64(len(t.buckets))]
	if b.slot != slot {
		*b = bucket{slot: slot}
	}
	b.count += n
}

// Count returns the number of tallies in the last window.
func (t *Tallier) Count() int64 {
	oldest := t.slotAt(t.now().Add(-t.window))
	var ret int64
	for _, b := range t.buckets {
		if b.slot >= oldest {
			ret += b.count
		}
	}
	return ret
}

// Rate returns the average number of tallies per second over the window.
func (t *Tallier) Rate() float64 {
	return float64(t.Count()) / t.window.Seconds()
}
