package monitor

import (
	"fmt"

	"github.com/sarchlab/ebsim/stage"
	"github.com/sarchlab/ebsim/word"
)

// Scoreboard checks exactly-once, in-order delivery: the sequence of
// values delivered downstream must equal, in order and count, the sequence
// of values accepted upstream.
//
// On a simultaneous-transfer tick the delivered value is the one held at
// tick start, so delivery is matched before the incoming item is queued.
// Reset discards any queued expectation; an item in flight when reset hits
// is destroyed by definition, not lost.
type Scoreboard struct {
	width      word.Width
	tick       uint64
	expected   []word.Word
	delivered  uint64
	violations []Violation
}

// NewScoreboard creates an empty scoreboard for words of the given width.
// Accepted values are truncated the same way the stage truncates them.
func NewScoreboard(width word.Width) *Scoreboard {
	return &Scoreboard{width: width}
}

// Observe feeds one tick's sampled inputs and derived outputs.
func (sb *Scoreboard) Observe(in stage.Input, out stage.Output) {
	defer func() { sb.tick++ }()

	if in.Reset {
		sb.expected = sb.expected[:0]
		return
	}

	if out.OutputTransfer {
		if len(sb.expected) == 0 {
			sb.violations = append(sb.violations, Violation{
				Tick: sb.tick,
				Kind: KindScoreboardMismatch,
				Detail: fmt.Sprintf(
					"delivered 0x%X with no item in flight",
					uint64(out.DownstreamData)),
			})
		} else {
			want := sb.expected[0]
			sb.expected = sb.expected[1:]
			if out.DownstreamData != want {
				sb.violations = append(sb.violations, Violation{
					Tick: sb.tick,
					Kind: KindScoreboardMismatch,
					Detail: fmt.Sprintf(
						"delivered 0x%X, expected 0x%X",
						uint64(out.DownstreamData), uint64(want)),
				})
			} else {
				sb.delivered++
			}
		}
	}

	if out.InputTransfer {
		sb.expected = append(sb.expected, sb.width.Truncate(in.UpstreamData))
	}
}

// Pending returns the number of accepted items not yet delivered.
func (sb *Scoreboard) Pending() int {
	return len(sb.expected)
}

// Delivered returns the number of correctly delivered items.
func (sb *Scoreboard) Delivered() uint64 {
	return sb.delivered
}

// Violations returns all mismatches detected so far.
func (sb *Scoreboard) Violations() []Violation {
	return sb.violations
}

// Clean reports whether no mismatch has been detected.
func (sb *Scoreboard) Clean() bool {
	return len(sb.violations) == 0
}
