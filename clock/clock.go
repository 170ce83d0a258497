// Package clock drives a per-cycle step function on an Akita event engine,
// so a stage simulation advances in simulated time at a configurable
// frequency instead of a bare loop.
package clock

import (
	"github.com/sarchlab/akita/v4/sim"
)

type tickEvent struct {
	*sim.EventBase
}

func newTickEvent(time sim.VTimeInSec, handler sim.Handler) *tickEvent {
	return &tickEvent{sim.NewEventBase(time, handler)}
}

// StepFunc advances the simulation by one cycle. Returning false stops
// the runner before the cycle budget is exhausted.
type StepFunc func(cycle uint64) bool

// Runner schedules one tick event per cycle on a serial event engine.
type Runner struct {
	engine sim.Engine
	freq   sim.Freq
	budget uint64
	step   StepFunc
	cycles uint64
}

// NewRunner creates a runner that invokes step once per cycle at the
// given frequency, for at most budget cycles.
func NewRunner(freq sim.Freq, budget uint64, step StepFunc) *Runner {
	return &Runner{
		engine: sim.NewSerialEngine(),
		freq:   freq,
		budget: budget,
		step:   step,
	}
}

// Handle processes one tick event and schedules the next one.
func (r *Runner) Handle(e sim.Event) error {
	if !r.step(r.cycles) {
		return nil
	}
	r.cycles++

	if r.cycles >= r.budget {
		return nil
	}
	r.engine.Schedule(newTickEvent(r.freq.NextTick(e.Time()), r))
	return nil
}

// Run schedules the first tick and runs the engine until no events
// remain. Returns the engine error, if any.
func (r *Runner) Run() error {
	r.engine.Schedule(newTickEvent(r.freq.NextTick(0), r))
	return r.engine.Run()
}

// Cycles returns the number of cycles executed.
func (r *Runner) Cycles() uint64 {
	return r.cycles
}

// Time returns the engine's current simulated time.
func (r *Runner) Time() sim.VTimeInSec {
	return r.engine.CurrentTime()
}
