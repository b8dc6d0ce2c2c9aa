package core

import "golang.org/x/exp/rand"

// Rand is the pseudo-random source used for tie-breaking and exploration.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a seeded PCG-backed source.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Choose picks one element of items, or "" when items is empty.
func Choose(r Rand, items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return items[r.Intn(len(items))]
	}
}
