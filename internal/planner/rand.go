package planner

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the source of generation-time variety. Only the drawn ranges are a
// contract, never the draws themselves.
type Rand interface {
	IntN(n int) int
}

// lockedRand makes a seeded PCG source safe to share between requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a seeded source. A zero seed seeds from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// draw picks a value uniformly from r.
func draw(rng Rand, r Range) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.IntN(r.Max-r.Min+1)
}

// interpolate returns the i-th (1-based) of n evenly spaced values from r.Min
// to r.Max, rounded to the nearest integer.
func interpolate(r Range, i, n int) int {
	if n <= 1 {
		return r.Min
	}
	span := r.Max - r.Min
	return r.Min + (2*span*(i-1)+(n-1))/(2*(n-1))
}
