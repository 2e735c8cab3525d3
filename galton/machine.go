// Package galton implements the core logic of a Galton box (also known as a
// quincunx or bean machine): an upright board with pegs in a triangular
// form. Beans are dropped from the opening at the top, branch left or right
// at every peg, and pile up in the slots at the bottom.
//
// In-flight beans are tracked in a logical coordinate system. For a 4-slot
// machine:
//
//	                 (0, 0)
//	          (0, 1)        (1, 1)
//	   (0, 2)        (1, 2)        (2, 2)
//	(0, 3)       (1, 3)        (2, 3)       (3, 3)
//	[Slot0]      [Slot1]       [Slot2]      [Slot3]
//
// Row y admits columns 0 through y, so a bean's column never exceeds its row
// index on the way down.
package galton

import "errors"

// ErrInvalidCapacity is returned when a machine is created with a
// non-positive slot count.
var ErrInvalidCapacity = errors.New("machine must have at least one slot")

// A Machine holds the complete state of one Galton box: the beans waiting to
// be dropped, the beans on the board, and the beans that have settled into
// slots.
//
// A Machine is not safe for concurrent use. Callers that drive it from
// multiple goroutines must serialize access externally.
type Machine struct {
	numSlots int

	// beans is the sequence the machine was last initialized with. It is
	// never reordered; beans[0:remaining] are the ones still waiting, fed
	// onto the board from the tail.
	beans     []Bean
	remaining int

	// falling[y] is the bean currently at peg row y, if any. Row 0 is the
	// opening at the top.
	falling  []Bean
	inFlight int

	slots map[int][]Bean
}

// NewMachine creates a machine with the given number of slots. The board is
// numSlots peg rows tall. The machine starts empty; call Reset to load it
// with beans.
func NewMachine(slotCount int) (*Machine, error) {
	if slotCount <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Machine{numSlots: slotCount}, nil
}

// SlotCount returns the number of slots the machine was created with.
func (m *Machine) SlotCount() int {
	return m.numSlots
}

// RemainingBeanCount returns the number of beans still waiting to be
// dropped.
func (m *Machine) RemainingBeanCount() int {
	return m.remaining
}

// InFlightBeanXPos returns the column of the in-flight bean at peg row y, or
// NoBeanInYPos if that row holds no bean.
func (m *Machine) InFlightBeanXPos(y int) int {
	if len(m.beans) == 0 || y < 0 || y >= len(m.falling) || m.falling[y] == nil {
		return NoBeanInYPos
	}

	return m.falling[y].XPos()
}

// SlotBeanCount returns the number of beans that have settled into slot i.
func (m *Machine) SlotBeanCount(i int) int {
	if len(m.beans) == 0 {
		return 0
	}

	return len(m.slots[i])
}

// AverageSlotBeanCount returns the mean slot index over all settled beans.
// When no bean has settled yet, it returns the raw numerator (zero) rather
// than dividing.
//
// TODO: slot 0 contributes weight 1 instead of 0, which skews the mean
// upward for left-heavy distributions. Confirm whether this is intended
// before changing it; the distribution checks downstream assert against the
// current value.
func (m *Machine) AverageSlotBeanCount() float64 {
	var num, denom float64

	for i := 0; i < m.numSlots; i++ {
		n := len(m.slots[i])
		if n == 0 {
			continue
		}

		denom += float64(n)
		if i != 0 {
			num += float64(n * i)
		} else {
			num += float64(n)
		}
	}

	if denom == 0 {
		return num
	}

	return num / denom
}

// Reset performs a hard reset, initializing the machine with the given
// beans. Every bean is reset first. If beans is non-empty, the machine
// starts with the last bean of the sequence at the top of the board and the
// rest waiting, to be dropped tail-first. All slots are emptied.
func (m *Machine) Reset(beans []Bean) {
	for _, b := range beans {
		b.Reset()
	}

	m.beans = make([]Bean, len(beans))
	copy(m.beans, beans)

	m.falling = make([]Bean, m.numSlots)
	m.slots = make(map[int][]Bean)
	m.inFlight = 0
	m.remaining = 0

	if len(m.beans) == 0 {
		return
	}

	m.remaining = len(m.beans) - 1
	m.falling[0] = m.beans[m.remaining]
	m.inFlight = 1
}

// AdvanceStep advances the machine one step. The bean on the last peg row,
// if any, settles into its slot. Every other in-flight bean makes one
// branching decision and falls one row. A new bean is dropped in at the top
// if any are still waiting.
//
// It returns whether anything changed. A false return means the machine has
// finished (or was never given beans).
func (m *Machine) AdvanceStep() bool {
	if len(m.beans) == 0 {
		return false
	}

	if m.remaining == 0 && m.inFlight == 0 {
		return false
	}

	m.settleBottomBean()
	m.dropBeans()

	if m.remaining > 0 {
		m.remaining--
		m.falling[0] = m.beans[m.remaining]
		m.inFlight++
	}

	return true
}

// settleBottomBean moves the bean on the last peg row, if present, into the
// slot matching its column. It runs before any branching decision so that a
// settled bean's column is final.
func (m *Machine) settleBottomBean() {
	last := m.numSlots - 1

	b := m.falling[last]
	if b == nil {
		return
	}

	m.falling[last] = nil
	m.inFlight--

	x := b.XPos()
	m.slots[x] = append(m.slots[x], b)
}

// dropBeans lets every in-flight bean take its next branching decision, then
// shifts the whole falling array down one row, leaving the top row empty.
func (m *Machine) dropBeans() {
	for _, b := range m.falling {
		if b != nil {
			b.Choose()
		}
	}

	for y := m.numSlots - 1; y > 0; y-- {
		m.falling[y] = m.falling[y-1]
	}
	m.falling[0] = nil
}

// Repeat scoops up every bean in the machine (settled, in-flight, and still
// waiting), resets them, and reinitializes the machine with the scooped
// sequence, as if Reset had been called. It does nothing on a machine that
// was never given beans.
func (m *Machine) Repeat() {
	if len(m.beans) == 0 {
		return
	}

	m.Reset(m.scoopBeans())
}

// scoopBeans collects every bean currently in the machine: slot by slot in
// ascending order, each slot's beans followed by the in-flight bean at the
// same row index, then the waiting beans in reverse order.
func (m *Machine) scoopBeans() []Bean {
	scooped := make([]Bean, 0, len(m.beans))

	for i := 0; i < m.numSlots; i++ {
		scooped = append(scooped, m.slots[i]...)
		if m.falling[i] != nil {
			scooped = append(scooped, m.falling[i])
		}
	}

	for i := m.remaining - 1; i >= 0; i-- {
		scooped = append(scooped, m.beans[i])
	}

	return scooped
}

// UpperHalf removes the lower half of all settled beans, keeping only the
// beans in the higher slots. With N settled beans, floor(N/2) are removed,
// scanning from slot 0 upward.
func (m *Machine) UpperHalf() {
	if len(m.beans) == 0 {
		return
	}

	toRemove := m.settledBeanCount() / 2
	for i := 0; toRemove > 0; i++ {
		toRemove = m.trimSlot(i, toRemove)
	}
}

// LowerHalf removes the upper half of all settled beans, keeping only the
// beans in the lower slots. With N settled beans, floor(N/2) are removed,
// scanning from the highest slot downward.
func (m *Machine) LowerHalf() {
	if len(m.beans) == 0 {
		return
	}

	toRemove := m.settledBeanCount() / 2
	for i := m.numSlots - 1; toRemove > 0; i-- {
		toRemove = m.trimSlot(i, toRemove)
	}
}

// trimSlot removes up to budget beans from slot i, whole slots first,
// trimming from the tail of the slot's pile otherwise. It returns the
// removal budget still left.
func (m *Machine) trimSlot(i, budget int) int {
	slot := m.slots[i]
	if len(slot) == 0 {
		return budget
	}

	if len(slot) <= budget {
		delete(m.slots, i)
		return budget - len(slot)
	}

	m.slots[i] = slot[:len(slot)-budget]

	return 0
}

func (m *Machine) settledBeanCount() int {
	n := 0
	for _, slot := range m.slots {
		n += len(slot)
	}

	return n
}
