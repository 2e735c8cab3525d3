package bean

import "math/rand"

// A Lucky bean moves right with probability 1/2 at every peg.
type Lucky struct {
	rng  *rand.Rand
	xpos int
}

// NewLucky creates a lucky bean driven by the given random source.
func NewLucky(rng *rand.Rand) *Lucky {
	return &Lucky{rng: rng}
}

// Reset moves the bean back to column 0.
func (b *Lucky) Reset() {
	b.xpos = 0
}

// Choose flips a coin and moves the bean right on heads.
func (b *Lucky) Choose() {
	if b.rng.Intn(2) == 1 {
		b.xpos++
	}
}

// XPos returns the bean's current column.
func (b *Lucky) XPos() int {
	return b.xpos
}
