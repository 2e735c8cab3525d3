// Package bean provides the concrete beans that fall through a Galton box.
//
// Two kinds exist. A lucky bean branches uniformly at random at every peg,
// so a large population approaches a binomial (near normal) distribution. A
// skilled bean draws a fixed skill level once, at creation, from a normal
// approximation of the same distribution and steers to the matching slot on
// every run.
package bean

import (
	"fmt"
	"math/rand"

	"github.com/galtonlab/quincunx/galton"
)

// Mode selects the branching policy of newly created beans.
type Mode int

const (
	// Luck makes beans branch 50/50 at every peg.
	Luck Mode = iota

	// Skill gives each bean a fixed per-bean bias drawn at creation.
	Skill
)

// ParseMode parses "luck" or "skill".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "luck":
		return Luck, nil
	case "skill":
		return Skill, nil
	default:
		return 0, fmt.Errorf("unknown mode %q, want luck or skill", s)
	}
}

func (m Mode) String() string {
	switch m {
	case Luck:
		return "luck"
	case Skill:
		return "skill"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// New creates one bean for a board with the given slot count. The random
// source drives every branching decision of a lucky bean, but only the
// one-time skill draw of a skilled bean.
func New(slotCount int, mode Mode, rng *rand.Rand) galton.Bean {
	if mode == Skill {
		return NewSkilled(slotCount, rng)
	}

	return NewLucky(rng)
}

// NewBatch creates count beans sharing one random source.
func NewBatch(slotCount, count int, mode Mode, rng *rand.Rand) []galton.Bean {
	beans := make([]galton.Bean, count)
	for i := range beans {
		beans[i] = New(slotCount, mode, rng)
	}

	return beans
}
