package shuffle

import (
	"math"
	"math/rand"
	"sort"
	"strconv"
	"testing"
)

func TestPermutation_IsPermutation(t *testing.T) {
	s := NewSeeded(42)

	for n := 0; n <= 12; n++ {
		perm := s.Permutation(n)
		if len(perm) != n {
			t.Fatalf("Expected length %d, got %d", n, len(perm))
		}
		sorted := append([]int(nil), perm...)
		sort.Ints(sorted)
		for i, v := range sorted {
			if v != i {
				t.Fatalf("Permutation(%d) = %v is not a permutation", n, perm)
			}
		}
	}
}

func TestPermutation_SmallInputsAreNoOps(t *testing.T) {
	s := New(nil)

	if got := s.Permutation(0); len(got) != 0 {
		t.Errorf("Expected empty permutation, got %v", got)
	}
	if got := s.Permutation(-3); len(got) != 0 {
		t.Errorf("Expected negative n to yield empty permutation, got %v", got)
	}
	if got := s.Permutation(1); len(got) != 1 || got[0] != 0 {
		t.Errorf("Expected [0], got %v", got)
	}

	called := false
	s.Shuffle(1, func(i, j int) { called = true })
	if called {
		t.Error("Shuffle(1) should not swap anything")
	}
}

func TestPermutation_Deterministic(t *testing.T) {
	a := New(rand.NewSource(7)).Permutation(8)
	b := New(rand.NewSource(7)).Permutation(8)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical permutations for the same seed, got %v and %v", a, b)
		}
	}
}

// Chi-squared check over the 24 permutations of 4 elements.
func TestPermutation_Uniform(t *testing.T) {
	const (
		n      = 4
		trials = 48000
	)
	s := NewSeeded(1)
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		key := ""
		for _, v := range s.Permutation(n) {
			key += strconv.Itoa(v)
		}
		counts[key]++
	}

	if len(counts) != 24 {
		t.Fatalf("Expected all 24 permutations to appear, got %d", len(counts))
	}

	expected := float64(trials) / 24
	chi2 := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	// 23 degrees of freedom; 49.7 is the 0.999 quantile.
	if chi2 > 49.7 || math.IsNaN(chi2) {
		t.Errorf("Distribution not uniform enough: chi2=%.2f", chi2)
	}
}
