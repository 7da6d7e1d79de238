// Package rng provides the uniform randomness sources used for song selection and
// score jitter.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Source produces uniformly distributed values in [0, 1).
type Source interface {
	Float64() float64
}

// Intn maps a uniform draw onto [0, n). It returns 0 when n <= 1.
func Intn(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	return min(max(i, 0), n-1)
}

// Shuffle performs a Fisher-Yates shuffle driven by src.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := Intn(src, i+1)
		swap(i, j)
	}
}

// PCG is a seeded pseudo-random source, safe for concurrent use.
type PCG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewPCG returns a deterministic source for the given seed.
func NewPCG(seed uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))} //nolint:gosec // not security-sensitive
}

// Float64 implements Source.
func (p *PCG) Float64() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.r.Float64()
}

// Sequence replays a fixed list of values, cycling when exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

// NewSequence returns a source that yields values in order. With no values it always
// yields 0, which makes every pick choose the first candidate.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}
