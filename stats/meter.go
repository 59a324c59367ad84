// Package stats keeps running averages of scalar values reported during
// training, one meter per key.
package stats

import (
	"fmt"
)

const DefaultFormat = "%f"

// Meter is a weighted running mean. Avg is 0 until Count becomes positive.
type Meter struct {
	Name  string
	Val   float64
	Sum   float64
	Count int
	Avg   float64

	format string
}

// NewMeter returns a reset meter. format is a fmt verb for a float64, such
// as "%.4f"; empty means DefaultFormat.
func NewMeter(name, format string) *Meter {
	if format == "" {
		format = DefaultFormat
	}
	m := &Meter{Name: name, format: format}
	m.Reset()
	return m
}

func (m *Meter) Reset() {
	m.Val = 0
	m.Sum = 0
	m.Count = 0
	m.Avg = 0
}

// Update records val as if it was observed n times, e.g. a batch mean over n
// samples.
func (m *Meter) Update(val float64, n int) {
	m.Val = val
	m.Sum += val * float64(n)
	m.Count += n
	if m.Count == 0 {
		m.Avg = 0
		return
	}
	m.Avg = m.Sum / float64(m.Count)
}

func (m *Meter) String() string {
	return fmt.Sprintf("%s "+m.format+" ("+m.format+")", m.Name, m.Val, m.Avg)
}
