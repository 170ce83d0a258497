// Package stage implements a single-slot elastic buffer stage with
// valid/ready handshaking on both interfaces.
//
// The stage holds at most one in-flight data item. Each call to Tick
// advances the stage by one synchronous cycle: all inputs are sampled at
// the same instant, the handshake signals are derived from pre-tick state,
// and exactly one state commit happens at the end of the call. A transfer
// on either interface is recognized only when the corresponding valid and
// ready signals are both high in the same tick.
package stage

import (
	"github.com/sarchlab/ebsim/word"
)

// Input carries the signals sampled by one tick.
type Input struct {
	// Reset forces the slot empty this tick, overriding all transfers.
	Reset bool

	// UpstreamValid indicates the producer is presenting UpstreamData.
	UpstreamValid bool

	// UpstreamData is the offered item. Sampled only on an input transfer.
	UpstreamData word.Word

	// DownstreamReady indicates the consumer accepts the held item this tick.
	DownstreamReady bool
}

// Output carries the signals derived from one tick. All fields reflect the
// state as of the start of the tick; the committed next state becomes
// visible on the following evaluation.
type Output struct {
	// UpstreamReady tells the producer a new item can be accepted this tick.
	UpstreamReady bool

	// DownstreamValid tells the consumer DownstreamData holds a live item.
	DownstreamValid bool

	// DownstreamData is the held item. Meaningful only while DownstreamValid.
	DownstreamData word.Word

	// InputTransfer reports that a new item entered the slot this tick.
	InputTransfer bool

	// OutputTransfer reports that the held item was consumed this tick.
	OutputTransfer bool
}

// Stage is a one-deep elastic buffer between a producer and a consumer.
// It is not safe for concurrent use; a stage has a single driving owner.
type Stage struct {
	width word.Width
	slot  Slot
	stats Statistics
}

// New creates an empty stage transferring words of the given bit width.
func New(dataWidth int) (*Stage, error) {
	w, err := word.NewWidth(dataWidth)
	if err != nil {
		return nil, err
	}
	return &Stage{width: w}, nil
}

// Width returns the configured data width.
func (s *Stage) Width() word.Width {
	return s.width
}

// Occupied reports whether the slot currently holds an item.
func (s *Stage) Occupied() bool {
	return s.slot.Occupied
}

// Stats returns the accumulated statistics.
func (s *Stage) Stats() Statistics {
	return s.stats
}

// Signals derives the handshake outputs from the current slot state and the
// consumer's ready signal. It is pure: it never mutates the stage and
// always produces the same outputs for the same inputs.
//
// The upstream interface is ready whenever the slot is empty, or when the
// slot is full but will be vacated this tick. The latter case is what lets
// a back-to-back stream move one item per tick with no stall cycle.
func (s *Stage) Signals(downstreamReady bool) Output {
	return Output{
		UpstreamReady:   !s.slot.Occupied || downstreamReady,
		DownstreamValid: s.slot.Occupied,
		DownstreamData:  s.slot.Data,
	}
}

// Tick advances the stage by one cycle and returns the tick's derived
// outputs.
//
// Reset is a guard preceding the transition table: when asserted, the slot
// is cleared, no transfer is recognized, and the reported ready/valid are
// forced low for the tick. Otherwise the next state follows the handshake:
//
//	input only    -> slot filled with the incoming item
//	output only   -> slot emptied
//	both          -> pass-through: the held item departs and the incoming
//	                 item lands in the slot in the same tick
//	neither       -> unchanged
func (s *Stage) Tick(in Input) Output {
	s.stats.Ticks++

	if in.Reset {
		s.slot.Clear()
		s.stats.Resets++
		return Output{}
	}

	out := s.Signals(in.DownstreamReady)
	out.InputTransfer = in.UpstreamValid && out.UpstreamReady
	out.OutputTransfer = out.DownstreamValid && in.DownstreamReady

	if s.slot.Occupied {
		s.stats.OccupiedTicks++
	}
	if out.DownstreamValid && !in.DownstreamReady {
		s.stats.StallTicks++
	}

	switch {
	case out.InputTransfer:
		if out.OutputTransfer {
			s.stats.PassThroughs++
			s.stats.Emitted++
		}
		s.slot.Occupied = true
		s.slot.Data = s.width.Truncate(in.UpstreamData)
		s.stats.Accepted++
	case out.OutputTransfer:
		s.slot.Clear()
		s.stats.Emitted++
	}

	return out
}
