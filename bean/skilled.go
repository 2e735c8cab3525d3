package bean

import (
	"math"
	"math/rand"
)

// A Skilled bean carries a fixed skill level: the exact number of rightward
// moves it makes on its way down. The level is drawn once at creation, so
// repeating an experiment with the same skilled beans reproduces the same
// slot counts.
type Skilled struct {
	skill int
	xpos  int
}

// NewSkilled creates a skilled bean for a board with the given slot count.
// The skill level is drawn from a normal approximation of the binomial
// distribution a lucky bean would follow over slotCount-1 pegs, then clamped
// to the valid slot range.
func NewSkilled(slotCount int, rng *rand.Rand) *Skilled {
	average := float64(slotCount-1) * 0.5
	stdev := math.Sqrt(float64(slotCount-1) * 0.5 * 0.5)

	skill := int(math.Round(rng.NormFloat64()*stdev + average))
	if skill < 0 {
		skill = 0
	}
	if skill > slotCount-1 {
		skill = slotCount - 1
	}

	return &Skilled{skill: skill}
}

// Reset moves the bean back to column 0. The skill level is kept.
func (b *Skilled) Reset() {
	b.xpos = 0
}

// Choose moves the bean right until it reaches its skill level.
func (b *Skilled) Choose() {
	if b.xpos < b.skill {
		b.xpos++
	}
}

// XPos returns the bean's current column.
func (b *Skilled) XPos() int {
	return b.xpos
}

// SkillLevel returns the column the bean will settle in.
func (b *Skilled) SkillLevel() int {
	return b.skill
}
