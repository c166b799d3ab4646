// Package shuffle produces unbiased permutations of target indices.
package shuffle

import (
	"math/rand"
	"sync"
	"time"
)

// Shuffler draws permutations from an injectable random source.
type Shuffler struct {
	rng   *rand.Rand
	mutex sync.Mutex
}

// New returns a shuffler reading from src. A nil src is seeded from the clock.
func New(src rand.Source) *Shuffler {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Shuffler{rng: rand.New(src)}
}

// NewSeeded is New with a fixed seed, for reproducible matches.
func NewSeeded(seed int64) *Shuffler {
	return New(rand.NewSource(seed))
}

// Permutation returns a uniformly chosen permutation of [0, n).
func (s *Shuffler) Permutation(n int) []int {
	if n < 0 {
		n = 0
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	s.Shuffle(n, func(i, j int) {
		perm[i], perm[j] = perm[j], perm[i]
	})
	return perm
}

// Shuffle runs Fisher-Yates over n elements, calling swap for every step.
func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	if n < 2 {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := n - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		swap(i, j)
	}
}
