package story

import (
	"math"
	"unicode/utf16"
)

// NewSeededRand returns a deterministic generator of floats in [0, 1) seeded by
// the string seed (xmur3 hash feeding an sfc32 generator). The seed is hashed
// by UTF-16 code units, so generators are reproducible across implementations.
func NewSeededRand(seed string) func() float64 {
	units := utf16.Encode([]rune(seed))
	h := uint32(1779033703) ^ uint32(len(units))
	for _, u := range units {
		h = (h ^ uint32(u)) * 3432918353
		h = h<<13 | h>>19
	}
	next := func() uint32 {
		h = (h ^ h>>16) * 2246822507
		h = (h ^ h>>13) * 3266489909
		h ^= h >> 16
		return h
	}
	a, b, c, d := next(), next(), next(), next()
	return func() float64 {
		t := a + b
		a = b ^ b>>9
		b = c + c<<3
		c = c<<21 | c>>11
		d++
		t += d
		c += t
		return float64(t) / 4294967296
	}
}

func pickOne[T any](rand func() float64, items ...T) T {
	return items[int(math.Floor(rand()*float64(len(items))))]
}

// round half up to n decimals
func round(x float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Floor(x*p+0.5) / p
}
