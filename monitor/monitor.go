// Package monitor provides conformance checking for an elastic buffer
// stage: temporal invariants across consecutive ticks and an in-order
// scoreboard matching accepted items against delivered items.
package monitor

import (
	"fmt"

	"github.com/sarchlab/ebsim/stage"
)

// Kind identifies the class of a detected violation.
type Kind string

const (
	// KindDataLoss reports a held item that changed while unacknowledged.
	KindDataLoss Kind = "data-loss"
	// KindValidWithdrawn reports a valid signal dropped before acknowledge.
	KindValidWithdrawn Kind = "valid-withdrawn"
	// KindResetLeak reports valid still high on the tick after a reset.
	KindResetLeak Kind = "reset-leak"
	// KindScoreboardMismatch reports out-of-order, duplicated, or
	// fabricated delivery.
	KindScoreboardMismatch Kind = "scoreboard-mismatch"
	// KindStuck reports a stage that kept asserting valid through an
	// entire bounded drain.
	KindStuck Kind = "stuck"
)

// Violation records one invariant failure at a specific tick.
type Violation struct {
	// Tick is the 0-based tick at which the violation was observed.
	Tick uint64
	// Kind classifies the violation.
	Kind Kind
	// Detail is a human-readable description.
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("tick %d: %s: %s", v.Tick, v.Kind, v.Detail)
}

// Monitor checks the stage's temporal invariants. It replays the signal
// trace one tick at a time, holding the previous tick's sample, and checks
// every invariant on every tick:
//
//   - no data loss: an unacknowledged item is unchanged on the next tick
//   - valid until acknowledged: valid cannot be silently withdrawn
//   - reset clears validity: valid is low on the tick after a reset
//
// The two hold invariants are disabled on ticks where reset is asserted;
// reset is the one defined transition allowed to discard a held item.
type Monitor struct {
	tick       uint64
	havePrev   bool
	prevIn     stage.Input
	prevOut    stage.Output
	violations []Violation
}

// New creates a monitor with no observed history.
func New() *Monitor {
	return &Monitor{}
}

// Observe feeds one tick's sampled inputs and derived outputs.
func (m *Monitor) Observe(in stage.Input, out stage.Output) {
	if m.havePrev {
		m.check(in, out)
	}
	m.prevIn = in
	m.prevOut = out
	m.havePrev = true
	m.tick++
}

func (m *Monitor) check(in stage.Input, out stage.Output) {
	// The hold invariants apply only while reset stays deasserted across
	// both ticks; reset is the one transition allowed to drop the item.
	held := !m.prevIn.Reset && !in.Reset &&
		m.prevOut.DownstreamValid && !m.prevIn.DownstreamReady

	if held && !out.DownstreamValid {
		m.record(KindValidWithdrawn, fmt.Sprintf(
			"item 0x%X was unacknowledged but valid dropped",
			uint64(m.prevOut.DownstreamData)))
	}

	if held && out.DownstreamValid &&
		out.DownstreamData != m.prevOut.DownstreamData {
		m.record(KindDataLoss, fmt.Sprintf(
			"held item changed from 0x%X to 0x%X without acknowledge",
			uint64(m.prevOut.DownstreamData), uint64(out.DownstreamData)))
	}

	if m.prevIn.Reset && out.DownstreamValid {
		m.record(KindResetLeak, "downstream valid high on the tick after reset")
	}
}

func (m *Monitor) record(kind Kind, detail string) {
	m.violations = append(m.violations, Violation{
		Tick:   m.tick,
		Kind:   kind,
		Detail: detail,
	})
}

// Violations returns all violations detected so far.
func (m *Monitor) Violations() []Violation {
	return m.violations
}

// Clean reports whether no violation has been detected.
func (m *Monitor) Clean() bool {
	return len(m.violations) == 0
}
