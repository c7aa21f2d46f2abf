package neat

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness for weight initialization, representative
// election and parent selection. *rand.Rand satisfies it; tests pass a seeded
// one to make outcomes reproducible.
type Rand interface {
	Intn(n int) int
	Float64() float64
	NormFloat64() float64
}

func newDefaultRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
