package sampler

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrInvalidMode = errors.New("sampling mode must be one of down, over, same or a positive integer")
	ErrNoLabels    = errors.New("no labels to sample from")
)

type modeKind int

const (
	invalid modeKind = iota
	down
	over
	same
	fixed
)

// Mode decides how many indices a single draw yields.
type Mode struct {
	kind modeKind
	n    int
}

// Down undersamples to k*min(count).
func Down() Mode { return Mode{kind: down} }

// Over oversamples to k*max(count).
func Over() Mode { return Mode{kind: over} }

// Same keeps the dataset size.
func Same() Mode { return Mode{kind: same} }

// Fixed draws exactly n indices. n must be positive; that is checked when the
// sampler is built.
func Fixed(n int) Mode { return Mode{kind: fixed, n: n} }

func ParseMode(s string) (Mode, error) {
	switch s {
	case "down":
		return Down(), nil
	case "over":
		return Over(), nil
	case "same":
		return Same(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return Mode{}, errors.Wrapf(ErrInvalidMode, "got %q", s)
	}
	return Fixed(n), nil
}

func (m Mode) String() string {
	switch m.kind {
	case down:
		return "down"
	case over:
		return "over"
	case same:
		return "same"
	case fixed:
		return strconv.Itoa(m.n)
	}
	return "invalid"
}

// length resolves the mode against the class counts of a dataset of n items.
func (m Mode) length(counts []int, n int) (int, error) {
	switch m.kind {
	case down:
		lo := counts[0]
		for _, c := range counts[1:] {
			if c < lo {
				lo = c
			}
		}
		return len(counts) * lo, nil
	case over:
		hi := counts[0]
		for _, c := range counts[1:] {
			if c > hi {
				hi = c
			}
		}
		return len(counts) * hi, nil
	case same:
		return n, nil
	case fixed:
		if m.n > 0 {
			return m.n, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidMode, "got %s", m)
}
