package oracle

import (
	"math/rand"
	"time"
)

// Rand is the uniform randomness source behind persona jitter, context
// sampling and fallback selection. *rand.Rand satisfies it; tests supply
// scripted implementations.
type Rand interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func pickOne(rng Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.Intn(len(items))]
}
