// Package sequence provides the reproducible pseudo-random float stream that
// drives tree growth.
//
// A Generator is owned by exactly one generation run. It is not safe for
// concurrent use; two trees built at the same time must each own their own
// instance or the output stops being reproducible.
package sequence

import "golang.org/x/exp/rand"

// Generator is a seeded stream of floats in [0,1).
type Generator struct {
	seed int64
	src  *rand.PCGSource
	rnd  *rand.Rand
}

// New returns a generator positioned at the start of the stream for seed.
func New(seed int64) *Generator {
	g := &Generator{src: &rand.PCGSource{}}
	g.rnd = rand.New(g.src)
	g.Reset(seed)
	return g
}

// Reset rewinds the stream to the start for seed.
func (g *Generator) Reset(seed int64) {
	g.seed = seed
	g.src.Seed(uint64(seed))
}

// Seed returns the seed the stream was last reset with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Next returns the next value in [0,1).
func (g *Generator) Next() float64 {
	return g.rnd.Float64()
}

// Range returns the next value mapped to [lo,hi).
func (g *Generator) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*g.Next()
}

// Signed returns the next value mapped to [-1,1).
func (g *Generator) Signed() float64 {
	return 2*g.Next() - 1
}

// Derive returns a fresh generator whose seed depends only on this
// generator's seed and salt, never on how far the stream has advanced.
func (g *Generator) Derive(salt uint64) *Generator {
	return New(int64(mix(uint64(g.seed), salt)))
}

// mix is the splitmix64 finalizer over seed and salt.
func mix(seed, salt uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15*(salt+1)
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
