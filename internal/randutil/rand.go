package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source is the slice of *rand.Rand the engine consumes. Tie-breaks, vitamin
// placement and bot moves all draw from one of these so a seeded source
// replays a match exactly.
type Source interface {
	IntN(n int) int
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns the seed for the i-th independent stream of a parent seed.
// Matches run side by side use it so each gets its own reproducible source.
func Derive(seed int64, i int) int64 {
	return int64(mix(uint64(seed) + uint64(i+1)*goldenRatio64))
}

// Pick returns a uniformly chosen element of xs. xs must not be empty.
func Pick[T any](rng Source, xs []T) T {
	if len(xs) == 1 {
		return xs[0]
	}
	return xs[rng.IntN(len(xs))]
}

// Sample returns k distinct elements of xs chosen uniformly without
// replacement. xs is not modified. k is clamped to len(xs).
func Sample[T any](rng Source, xs []T, k int) []T {
	if k > len(xs) {
		k = len(xs)
	}
	if k <= 0 {
		return nil
	}
	pool := make([]T, len(xs))
	copy(pool, xs)
	// partial Fisher-Yates: the first k slots end up as the sample
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
