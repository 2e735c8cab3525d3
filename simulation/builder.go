package simulation

import (
	"math/rand"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/galtonlab/quincunx/bean"
	"github.com/galtonlab/quincunx/galton"
	"github.com/galtonlab/quincunx/monitoring"
	"github.com/galtonlab/quincunx/recording"
)

// Builder can be used to build a simulation.
type Builder struct {
	slotCount   int
	beanCount   int
	mode        bean.Mode
	seed        int64
	debug       bool
	recordOn    bool
	monitorOn   bool
	monitorPort int
	openBrowser bool
	outputName  string
}

// MakeBuilder creates a new builder with a 10-slot, luck-mode machine.
func MakeBuilder() Builder {
	return Builder{
		slotCount: 10,
		mode:      bean.Luck,
	}
}

// WithSlotCount sets the number of slots of the machine.
func (b Builder) WithSlotCount(n int) Builder {
	b.slotCount = n
	return b
}

// WithBeanCount sets the number of beans dropped through the machine.
func (b Builder) WithBeanCount(n int) Builder {
	b.beanCount = n
	return b
}

// WithMode sets the branching policy of the beans.
func (b Builder) WithMode(m bean.Mode) Builder {
	b.mode = m
	return b
}

// WithSeed fixes the random seed, making the experiment reproducible. A
// zero seed picks a time-based one.
func (b Builder) WithSeed(seed int64) Builder {
	b.seed = seed
	return b
}

// WithDebug makes the simulation print the whole board after every step.
func (b Builder) WithDebug() Builder {
	b.debug = true
	return b
}

// WithMonitoring sets the simulation to serve its state over HTTP.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser makes the monitor open its page in the default browser.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithOutputFileName enables result recording into the named SQLite file.
// An empty name picks a unique generated one.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.recordOn = true
	b.outputName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.beanCount < 0 {
		panic("bean count cannot be negative")
	}

	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}
}

// Build builds the simulation. The machine comes out reset, loaded with the
// configured beans, and ready for Run.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	machine, err := galton.NewMachine(b.slotCount)
	if err != nil {
		panic(err)
	}

	seed := b.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &Simulation{
		id:       xid.New().String(),
		machine:  machine,
		beans:    bean.NewBatch(b.slotCount, b.beanCount, b.mode, rng),
		mode:     b.mode,
		debug:    b.debug,
		debugOut: os.Stdout,
	}

	if b.recordOn {
		s.recorder = recording.New(b.outputName)
		s.recorder.CreateTable(experimentTable, ExperimentRow{})
		s.recorder.CreateTable(slotCountTable, SlotCountRow{})
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		if b.openBrowser {
			s.monitor.WithBrowser()
		}
		s.monitor.RegisterMachine(machine)
		s.monitor.StartServer()
	}

	s.machine.Reset(s.beans)

	return s
}
