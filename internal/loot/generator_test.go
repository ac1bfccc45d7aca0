package loot

import (
	"testing"
	"time"
)

func TestGenerateZeroDelta(t *testing.T) {
	g := NewGenerator(Policy{Period: time.Second, Probability: 1}, nil)
	if n := g.Generate(0, 0, 10); n != 0 {
		t.Errorf("Generate(0) = %d, expected 0", n)
	}
	if n := g.Generate(-time.Second, 0, 10); n != 0 {
		t.Errorf("Generate(-1s) = %d, expected 0", n)
	}
}

func TestGenerateNeverExceedsShortage(t *testing.T) {
	tests := []struct {
		name          string
		loot, looters int
		max           int
	}{
		{"no looters", 0, 0, 0},
		{"more loot than looters", 5, 3, 0},
		{"balanced", 3, 3, 0},
		{"shortage of one", 2, 3, 1},
		{"shortage of ten", 0, 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := NewGenerator(Policy{Period: time.Second, Probability: 1}, nil)
			n := g.Generate(time.Hour, tc.loot, tc.looters)
			if n < 0 || n > tc.max {
				t.Errorf("Generate() = %d, expected within [0, %d]", n, tc.max)
			}
		})
	}
}

func TestGenerateFullProbabilityFillsShortage(t *testing.T) {
	g := NewGenerator(Policy{Period: 5 * time.Second, Probability: 1}, nil)
	if n := g.Generate(10*time.Millisecond, 0, 3); n != 3 {
		t.Errorf("Generate() = %d, expected 3", n)
	}
}

func TestGenerateAccumulatesTime(t *testing.T) {
	g := NewGenerator(Policy{Period: time.Second, Probability: 0.5}, nil)

	// 100ms of a 1s period with p=0.5 gives ~0.067 per looter: rounds to zero.
	if n := g.Generate(100*time.Millisecond, 0, 1); n != 0 {
		t.Fatalf("Generate(100ms) = %d, expected 0", n)
	}
	// After 2s total the probability is 0.75 and one looter rounds up.
	if n := g.Generate(1900*time.Millisecond, 0, 1); n != 1 {
		t.Fatalf("Generate(1.9s) = %d, expected 1", n)
	}
	// A spawn resets the accumulator.
	if n := g.Generate(100*time.Millisecond, 0, 1); n != 0 {
		t.Errorf("Generate() after spawn = %d, expected 0", n)
	}
}

func TestGenerateMonotonicInDeltaAndProbability(t *testing.T) {
	const looters = 100
	deltas := []time.Duration{10 * time.Millisecond, 100 * time.Millisecond, time.Second, 10 * time.Second}

	prev := -1
	for _, d := range deltas {
		g := NewGenerator(Policy{Period: time.Second, Probability: 0.3}, nil)
		n := g.Generate(d, 0, looters)
		if n < prev {
			t.Errorf("Generate(%v) = %d, expected >= %d", d, n, prev)
		}
		prev = n
	}

	prev = -1
	for _, p := range []float64{0.05, 0.2, 0.5, 0.9} {
		g := NewGenerator(Policy{Period: time.Second, Probability: p}, nil)
		n := g.Generate(500*time.Millisecond, 0, looters)
		if n < prev {
			t.Errorf("Generate(p=%v) = %d, expected >= %d", p, n, prev)
		}
		prev = n
	}
}

func TestGenerateRandomSourceScales(t *testing.T) {
	g := NewGenerator(Policy{Period: time.Second, Probability: 1}, func() float64 { return 0 })
	if n := g.Generate(time.Hour, 0, 10); n != 0 {
		t.Errorf("Generate() with zero random = %d, expected 0", n)
	}
}
