// Package seed initializes the random generators used by this module. The
// sampler and view packages consume randomness but never seed anything
// themselves; call All once at process start.
package seed

import (
	mrand "math/rand"
	"sync/atomic"

	"golang.org/x/exp/rand"
)

var deterministic atomic.Bool

// All seeds the package-level generators of golang.org/x/exp/rand and
// math/rand with seed and returns a fresh source seeded the same way, for
// components that take one. The same seed always reproduces the same draws.
//
// det is recorded for callers that choose between reproducible
// and faster non-reproducible code paths; see Deterministic.
func All(seed uint64, det bool) rand.Source {
	rand.Seed(seed)
	mrand.Seed(int64(seed))
	deterministic.Store(det)
	return rand.NewSource(seed)
}

// Deterministic reports the flag passed to the last All call.
func Deterministic() bool {
	return deterministic.Load()
}
