package galton

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

// biasedBean returns a mock bean that moves right on every choice until it
// reaches the target column, then holds its position.
func biasedBean(ctrl *gomock.Controller, target int) *MockBean {
	x := 0

	b := NewMockBean(ctrl)
	b.EXPECT().Reset().Do(func() { x = 0 }).AnyTimes()
	b.EXPECT().Choose().Do(func() {
		if x < target {
			x++
		}
	}).AnyTimes()
	b.EXPECT().XPos().DoAndReturn(func() int { return x }).AnyTimes()

	return b
}

// rightwardBean returns a mock bean that moves right on every choice.
func rightwardBean(ctrl *gomock.Controller) *MockBean {
	x := 0

	b := NewMockBean(ctrl)
	b.EXPECT().Reset().Do(func() { x = 0 }).AnyTimes()
	b.EXPECT().Choose().Do(func() { x++ }).AnyTimes()
	b.EXPECT().XPos().DoAndReturn(func() int { return x }).AnyTimes()

	return b
}

func biasedBeans(ctrl *gomock.Controller, targets ...int) []Bean {
	beans := make([]Bean, len(targets))
	for i, t := range targets {
		beans[i] = biasedBean(ctrl, t)
	}

	return beans
}

func inFlightCount(m *Machine) int {
	n := 0
	for y := 0; y < m.SlotCount(); y++ {
		if m.InFlightBeanXPos(y) != NoBeanInYPos {
			n++
		}
	}

	return n
}

func settledCount(m *Machine) int {
	n := 0
	for i := 0; i < m.SlotCount(); i++ {
		n += m.SlotBeanCount(i)
	}

	return n
}

func runToCompletion(m *Machine) int {
	steps := 0
	for m.AdvanceStep() {
		steps++
	}

	return steps
}

var _ = Describe("Machine", func() {
	var (
		mockCtrl *gomock.Controller
		machine  *Machine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		var err error
		machine, err = NewMachine(10)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reject a non-positive slot count", func() {
		_, err := NewMachine(0)
		Expect(err).To(MatchError(ErrInvalidCapacity))

		_, err = NewMachine(-3)
		Expect(err).To(MatchError(ErrInvalidCapacity))
	})

	Context("when resetting", func() {
		It("should reset every bean it is given", func() {
			beans := make([]Bean, 3)
			for i := range beans {
				b := NewMockBean(mockCtrl)
				b.EXPECT().Reset().Times(1)
				beans[i] = b
			}

			machine.Reset(beans)
		})

		It("should start with one bean at the top", func() {
			machine.Reset(biasedBeans(mockCtrl, 0, 0, 0))

			Expect(machine.RemainingBeanCount()).To(Equal(2))
			Expect(machine.InFlightBeanXPos(0)).To(Equal(0))
			Expect(inFlightCount(machine)).To(Equal(1))
			Expect(settledCount(machine)).To(Equal(0))
		})

		It("should clear the slots from a previous run", func() {
			machine.Reset(biasedBeans(mockCtrl, 0, 0))
			runToCompletion(machine)
			Expect(settledCount(machine)).To(Equal(2))

			machine.Reset(biasedBeans(mockCtrl, 0))

			Expect(settledCount(machine)).To(Equal(0))
			Expect(machine.RemainingBeanCount()).To(Equal(0))
			Expect(inFlightCount(machine)).To(Equal(1))
		})

		It("should leave an empty machine inert when given no beans", func() {
			machine.Reset(nil)

			Expect(machine.AdvanceStep()).To(BeFalse())
			Expect(machine.RemainingBeanCount()).To(Equal(0))
			for y := 0; y < machine.SlotCount(); y++ {
				Expect(machine.InFlightBeanXPos(y)).To(Equal(NoBeanInYPos))
			}
		})
	})

	Context("when advancing", func() {
		It("should do nothing before the machine is ever reset", func() {
			Expect(machine.AdvanceStep()).To(BeFalse())
		})

		It("should conserve the number of beans at every step", func() {
			total := 8
			machine.Reset(biasedBeans(mockCtrl, 0, 1, 2, 3, 4, 5, 6, 7))

			for machine.AdvanceStep() {
				observed := machine.RemainingBeanCount() +
					inFlightCount(machine) +
					settledCount(machine)
				Expect(observed).To(Equal(total))
			}
		})

		It("should terminate after slotCount-1+beanCount productive steps", func() {
			machine.Reset(biasedBeans(mockCtrl, 2, 2, 2, 2, 2))

			Expect(runToCompletion(machine)).To(Equal(10 - 1 + 5))
			Expect(machine.AdvanceStep()).To(BeFalse())
		})

		It("should keep in-flight beans inside the triangle", func() {
			beans := []Bean{
				rightwardBean(mockCtrl),
				rightwardBean(mockCtrl),
				rightwardBean(mockCtrl),
			}
			machine.Reset(beans)

			for machine.AdvanceStep() {
				for y := 0; y < machine.SlotCount(); y++ {
					x := machine.InFlightBeanXPos(y)
					if x == NoBeanInYPos {
						continue
					}
					Expect(x).To(BeNumerically(">=", 0))
					Expect(x).To(BeNumerically("<=", y))
				}
			}
		})

		It("should pile beans that always go right into the last slot", func() {
			beans := make([]Bean, 5)
			for i := range beans {
				beans[i] = rightwardBean(mockCtrl)
			}
			machine.Reset(beans)

			runToCompletion(machine)

			Expect(machine.RemainingBeanCount()).To(Equal(0))
			Expect(machine.SlotBeanCount(9)).To(Equal(5))
			for i := 0; i < 9; i++ {
				Expect(machine.SlotBeanCount(i)).To(Equal(0))
			}
		})

		It("should drop every bean into slot 0 on a one-slot board", func() {
			oneSlot, err := NewMachine(1)
			Expect(err).ToNot(HaveOccurred())

			oneSlot.Reset(biasedBeans(mockCtrl, 0, 0, 0, 0))
			runToCompletion(oneSlot)

			Expect(oneSlot.SlotBeanCount(0)).To(Equal(4))
		})

		It("should settle a bean before the others choose", func() {
			// A bean on the last peg row must keep the column it settled
			// with even though the remaining beans branch in the same step.
			first := biasedBean(mockCtrl, 3)
			second := rightwardBean(mockCtrl)
			machine.Reset([]Bean{second, first})

			runToCompletion(machine)

			Expect(machine.SlotBeanCount(3)).To(Equal(1))
			Expect(machine.SlotBeanCount(9)).To(Equal(1))
		})
	})

	Context("when removing half of the beans", func() {
		BeforeEach(func() {
			machine.Reset(biasedBeans(mockCtrl, 0, 0, 0, 1, 1, 2))
			runToCompletion(machine)
		})

		It("should land the fixture distribution", func() {
			Expect(machine.SlotBeanCount(0)).To(Equal(3))
			Expect(machine.SlotBeanCount(1)).To(Equal(2))
			Expect(machine.SlotBeanCount(2)).To(Equal(1))
		})

		It("should keep the upper half", func() {
			machine.UpperHalf()

			Expect(machine.SlotBeanCount(0)).To(Equal(0))
			Expect(machine.SlotBeanCount(1)).To(Equal(2))
			Expect(machine.SlotBeanCount(2)).To(Equal(1))
			Expect(settledCount(machine)).To(Equal(3))
		})

		It("should keep the lower half", func() {
			machine.LowerHalf()

			Expect(machine.SlotBeanCount(0)).To(Equal(3))
			Expect(machine.SlotBeanCount(1)).To(Equal(0))
			Expect(machine.SlotBeanCount(2)).To(Equal(0))
		})

		It("should trim partially inside a slot", func() {
			machine.LowerHalf()
			// 3 beans left, all in slot 0.
			machine.LowerHalf()

			Expect(machine.SlotBeanCount(0)).To(Equal(2))
		})

		It("should compound rather than stay idempotent", func() {
			machine.UpperHalf()
			machine.UpperHalf()

			Expect(settledCount(machine)).To(Equal(2))
			Expect(machine.SlotBeanCount(1)).To(Equal(1))
			Expect(machine.SlotBeanCount(2)).To(Equal(1))
		})
	})

	It("should ignore half removal before the machine is ever reset", func() {
		machine.UpperHalf()
		machine.LowerHalf()

		Expect(settledCount(machine)).To(Equal(0))
	})

	Context("when repeating the experiment", func() {
		It("should do nothing before the machine is ever reset", func() {
			machine.Repeat()

			Expect(machine.AdvanceStep()).To(BeFalse())
		})

		It("should reproduce the slot counts with deterministic beans", func() {
			machine.Reset(biasedBeans(mockCtrl, 1, 3, 3, 5, 8, 8, 8))
			runToCompletion(machine)

			expected := make([]int, machine.SlotCount())
			for i := range expected {
				expected[i] = machine.SlotBeanCount(i)
			}

			machine.Repeat()
			runToCompletion(machine)

			for i := range expected {
				Expect(machine.SlotBeanCount(i)).To(Equal(expected[i]))
			}
		})

		It("should scoop up in-flight and waiting beans alike", func() {
			machine.Reset(biasedBeans(mockCtrl, 2, 2, 2, 2, 2, 2))
			machine.AdvanceStep()
			machine.AdvanceStep()
			machine.AdvanceStep()

			machine.Repeat()

			Expect(machine.RemainingBeanCount()).To(Equal(5))
			Expect(inFlightCount(machine)).To(Equal(1))
			Expect(settledCount(machine)).To(Equal(0))

			runToCompletion(machine)
			Expect(machine.SlotBeanCount(2)).To(Equal(6))
		})
	})

	Context("when querying the average slot", func() {
		It("should return the raw numerator when no bean has settled", func() {
			Expect(machine.AverageSlotBeanCount()).To(Equal(0.0))
		})

		It("should weight slot 0 as 1", func() {
			machine.Reset(biasedBeans(mockCtrl, 0, 0))
			runToCompletion(machine)

			Expect(machine.AverageSlotBeanCount()).To(Equal(1.0))
		})

		It("should average the slot indexes of all settled beans", func() {
			machine.Reset(biasedBeans(mockCtrl, 1, 1, 2))
			runToCompletion(machine)

			Expect(machine.AverageSlotBeanCount()).To(
				BeNumerically("~", 4.0/3.0, 1e-12))
		})
	})

	Context("when querying in-flight positions", func() {
		It("should return the sentinel for rows outside the board", func() {
			machine.Reset(biasedBeans(mockCtrl, 0))

			Expect(machine.InFlightBeanXPos(-1)).To(Equal(NoBeanInYPos))
			Expect(machine.InFlightBeanXPos(10)).To(Equal(NoBeanInYPos))
			Expect(machine.InFlightBeanXPos(100)).To(Equal(NoBeanInYPos))
		})

		It("should return the sentinel before any reset", func() {
			Expect(machine.InFlightBeanXPos(0)).To(Equal(NoBeanInYPos))
		})
	})
})
