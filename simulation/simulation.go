// Package simulation assembles a complete Galton box experiment: the
// machine, its beans, and the optional result recorder and web monitor.
package simulation

import (
	"fmt"
	"io"

	"github.com/galtonlab/quincunx/bean"
	"github.com/galtonlab/quincunx/galton"
	"github.com/galtonlab/quincunx/monitoring"
	"github.com/galtonlab/quincunx/recording"
)

const (
	experimentTable = "experiments"
	slotCountTable  = "slot_counts"
)

// ExperimentRow is the per-run summary stored by the result recorder.
type ExperimentRow struct {
	ID          string
	Run         int
	SlotCount   int
	BeanCount   int
	Mode        string
	AverageSlot float64
	Steps       int
}

// SlotCountRow is the per-slot result stored by the result recorder.
type SlotCountRow struct {
	ExperimentID string
	Run          int
	Slot         int
	Count        int
}

// A Simulation owns one machine and the beans that fall through it.
type Simulation struct {
	id      string
	machine *galton.Machine
	beans   []galton.Bean
	mode    bean.Mode

	debug    bool
	debugOut io.Writer

	recorder recording.DataRecorder
	monitor  *monitoring.Monitor

	run   int
	steps int
}

// ID returns the unique identifier of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Machine returns the machine driven by the simulation.
func (s *Simulation) Machine() *galton.Machine {
	return s.machine
}

// BeanCount returns the number of beans in the experiment.
func (s *Simulation) BeanCount() int {
	return len(s.beans)
}

// Steps returns the number of productive steps of the last Run.
func (s *Simulation) Steps() int {
	return s.steps
}

// Run advances the machine until it reports no more changes, then records
// the results if a recorder is attached. In debug mode the whole board is
// printed after every step.
func (s *Simulation) Run() {
	s.run++
	s.steps = 0

	if s.debug {
		fmt.Fprintln(s.debugOut, s.machine)
	}

	for s.machine.AdvanceStep() {
		s.steps++

		if s.debug {
			fmt.Fprintln(s.debugOut, s.machine)
		}
	}

	s.recordResults()
}

// Repeat scoops all beans back into the machine for another run.
func (s *Simulation) Repeat() {
	s.machine.Repeat()
	s.steps = 0
}

// UpperHalf discards the lower half of the settled beans.
func (s *Simulation) UpperHalf() {
	s.machine.UpperHalf()
}

// LowerHalf discards the upper half of the settled beans.
func (s *Simulation) LowerHalf() {
	s.machine.LowerHalf()
}

// Terminate releases the resources held by the simulation.
func (s *Simulation) Terminate() {
	if s.recorder != nil {
		s.recorder.Close()
		s.recorder = nil
	}
}

func (s *Simulation) recordResults() {
	if s.recorder == nil {
		return
	}

	s.recorder.InsertData(experimentTable, ExperimentRow{
		ID:          s.id,
		Run:         s.run,
		SlotCount:   s.machine.SlotCount(),
		BeanCount:   len(s.beans),
		Mode:        s.mode.String(),
		AverageSlot: s.machine.AverageSlotBeanCount(),
		Steps:       s.steps,
	})

	for i := 0; i < s.machine.SlotCount(); i++ {
		s.recorder.InsertData(slotCountTable, SlotCountRow{
			ExperimentID: s.id,
			Run:          s.run,
			Slot:         i,
			Count:        s.machine.SlotBeanCount(i),
		})
	}

	s.recorder.Flush()
}
