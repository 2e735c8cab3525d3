package galton

// NoBeanInYPos is returned by InFlightBeanXPos when the queried row holds no
// bean.
const NoBeanInYPos = -1

// A Bean is a particle that descends through the board, branching once per
// peg row. The machine never decides how a bean branches. It only asks the
// bean for its next choice and reads the resulting column.
type Bean interface {
	// Reset discards all branching decisions made so far, moving the bean
	// back to column 0.
	Reset()

	// Choose makes one branching decision, either keeping the current column
	// or moving one column to the right.
	Choose()

	// XPos returns the bean's current column.
	XPos() int
}
