package galton

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Rendering", func() {
	var (
		mockCtrl *gomock.Controller
		machine  *Machine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		var err error
		machine, err = NewMachine(2)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should draw the bean at the top after a reset", func() {
		machine.Reset(biasedBeans(mockCtrl, 0))

		Expect(machine.String()).To(Equal(
			"     1\n" +
				"   0   0\n" +
				"   0   0"))
	})

	It("should follow the bean down the board", func() {
		machine.Reset(biasedBeans(mockCtrl, 0))
		machine.AdvanceStep()

		Expect(machine.String()).To(Equal(
			"     0\n" +
				"   1   0\n" +
				"   0   0"))
	})

	It("should show the slot counts once beans settle", func() {
		machine.Reset(biasedBeans(mockCtrl, 0))
		runToCompletion(machine)

		Expect(machine.String()).To(Equal(
			"     0\n" +
				"   0   0\n" +
				"   1   0"))
		Expect(machine.SlotString()).To(Equal("   1   0"))
	})
})
