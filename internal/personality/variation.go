package personality

import (
	"math/rand"
	"time"
)

// Variation is the random source behind every probabilistic choice a
// conversation makes. It is not safe for concurrent use; each conversation
// owns its own.
type Variation struct {
	rng *rand.Rand
}

// NewVariation creates a variation source seeded from the clock.
func NewVariation() *Variation {
	return NewSeededVariation(time.Now().UnixNano())
}

// NewSeededVariation creates a variation source with a fixed seed so a
// conversation can be replayed exactly.
func NewSeededVariation(seed int64) *Variation {
	return &Variation{rng: rand.New(rand.NewSource(seed))}
}

// NewVariationFromRand wraps an existing generator.
func NewVariationFromRand(rng *rand.Rand) *Variation {
	if rng == nil {
		return NewVariation()
	}
	return &Variation{rng: rng}
}

// Chance draws once from [0,1) and reports whether it fell below p.
// p <= 0 never succeeds and p >= 1 always does, but a draw is consumed
// either way so the sequence stays stable when traits change.
func (v *Variation) Chance(p float64) bool {
	return v.rng.Float64() < p
}

// Intn returns a uniform int in [0,n). n <= 0 yields 0 without drawing.
func (v *Variation) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return v.rng.Intn(n)
}

// Pick returns a uniformly chosen line, or "" for an empty pool.
func (v *Variation) Pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[v.Intn(len(lines))]
}
