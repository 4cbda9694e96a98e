package pricing

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the pseudo-random source injected into every component that
// simulates randomness (isolation trials, recall-probability jitter).
// Injecting it keeps production behavior statistically realistic while
// letting tests pin a seed and assert exact values.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n).
	Intn(n int) int
}

// lockedRand wraps math/rand with a mutex so a single source can be shared
// by concurrent scoring calls.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Intn(n)
}

// NewRand returns a Rand seeded with the given seed.  Seed 0 selects a
// time-based seed, which is the production default.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}
