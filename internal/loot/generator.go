// Package loot implements the spawn policy deciding how many collectibles
// appear on a session per tick.
package loot

import (
	"math"
	"time"

	"github.com/vovakirdan/dogpatrol/internal/core"
)

// RandomSource returns a value in [0, 1]. The generator scales its spawn
// probability by the value it returns.
type RandomSource func() float64

// Policy holds the tunables shared by every session of a game.
type Policy struct {
	// Period is the mean interval over which Probability applies.
	Period time.Duration
	// Probability that at least one collectible appears within Period.
	Probability float64
}

// Generator accumulates time without spawns and converts it into a spawn
// count. One generator serves one session.
type Generator struct {
	policy          Policy
	random          RandomSource
	timeWithoutLoot time.Duration
}

// NewGenerator creates a generator. A nil random source always returns 1,
// which makes the generator deterministic.
func NewGenerator(p Policy, random RandomSource) *Generator {
	if random == nil {
		random = func() float64 { return 1.0 }
	}
	return &Generator{policy: p, random: random}
}

// Policy returns the tunables the generator was created with.
func (g *Generator) Policy() Policy {
	return g.policy
}

// Generate returns how many collectibles to add, given the time elapsed since
// the last call and the current loot and looter counts. The result never
// exceeds looters-loot and is zero when delta is not positive.
func (g *Generator) Generate(delta time.Duration, lootCount, looterCount int) int {
	if delta <= 0 {
		return 0
	}
	g.timeWithoutLoot += delta

	shortage := looterCount - lootCount
	if shortage <= 0 || g.policy.Period <= 0 || g.policy.Probability <= 0 {
		return 0
	}

	ratio := float64(g.timeWithoutLoot) / float64(g.policy.Period)
	p := core.ClampF(g.policy.Probability, 0, 1)
	probability := core.ClampF((1.0-math.Pow(1.0-p, ratio))*core.ClampF(g.random(), 0, 1), 0, 1)

	generated := int(math.Round(float64(shortage) * probability))
	generated = core.Clamp(generated, 0, shortage)
	if generated > 0 {
		g.timeWithoutLoot = 0
	}
	return generated
}
