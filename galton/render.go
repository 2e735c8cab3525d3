package galton

import (
	"fmt"
	"strings"
)

// xSpacing is the number of spaces between numbers when printing the state
// of the machine. Odd numbers render best.
const xSpacing = 3

// indent returns the number of spaces to indent the first peg of row y.
func (m *Machine) indent(y int) int {
	rootIndent := (m.numSlots-1)*(xSpacing+1)/2 + (xSpacing + 1)
	return rootIndent - (xSpacing+1)/2*y
}

// SlotString returns one line with the bean count of every slot.
func (m *Machine) SlotString() string {
	var sb strings.Builder

	for i := 0; i < m.numSlots; i++ {
		fmt.Fprintf(&sb, "%*d", xSpacing+1, m.SlotBeanCount(i))
	}

	return sb.String()
}

// String renders the entire machine as a triangular grid. A peg with a bean
// above it prints as 1, an empty one as 0. The slot bean counts are attached
// at the very bottom.
func (m *Machine) String() string {
	var sb strings.Builder

	for y := 0; y < m.numSlots; y++ {
		xBean := m.InFlightBeanXPos(y)

		for x := 0; x <= y; x++ {
			spacing := xSpacing + 1
			if x == 0 {
				spacing = m.indent(y)
			}

			if x == xBean {
				fmt.Fprintf(&sb, "%*d", spacing, 1)
			} else {
				fmt.Fprintf(&sb, "%*d", spacing, 0)
			}
		}

		sb.WriteString("\n")
	}

	return sb.String() + m.SlotString()
}
