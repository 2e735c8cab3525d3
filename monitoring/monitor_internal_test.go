package monitoring

import (
	"math/rand"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/galtonlab/quincunx/bean"
	"github.com/galtonlab/quincunx/galton"
)

// stuckBean never moves, so monitor-driven steps are fully predictable.
type stuckBean struct{}

func (stuckBean) Reset()    {}
func (stuckBean) Choose()   {}
func (stuckBean) XPos() int { return 0 }

var _ = Describe("Monitor", func() {
	var (
		m       *Monitor
		machine *galton.Machine
	)

	BeforeEach(func() {
		var err error
		machine, err = galton.NewMachine(3)
		Expect(err).ToNot(HaveOccurred())
		machine.Reset([]galton.Bean{stuckBean{}, stuckBean{}})

		m = NewMonitor()
		m.RegisterMachine(machine)
	})

	It("should report the slot counts", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/slots", nil)

		m.listSlots(w, r)

		Expect(w.Body.String()).To(Equal("[0,0,0]"))
	})

	It("should advance the machine one step at a time", func() {
		for i := 0; i < 4; i++ {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/api/step", nil)

			m.step(w, r)

			Expect(w.Body.String()).To(Equal("{\"changed\":true}"))
		}

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/step", nil)

		m.step(w, r)

		Expect(w.Body.String()).To(Equal("{\"changed\":false}"))
		Expect(machine.SlotBeanCount(0)).To(Equal(2))
	})

	It("should reject privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should serialize the machine state", func() {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/state", nil)

		m.machineState(w, r)

		Expect(w.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should monitor machines loaded with real beans", func() {
		beans := bean.NewBatch(3, 5, bean.Skill, rand.New(rand.NewSource(42)))
		machine.Reset(beans)

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/slots", nil)

		m.listSlots(w, r)

		Expect(w.Body.String()).To(Equal("[0,0,0]"))
	})
})
