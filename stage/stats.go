package stage

// Statistics holds per-stage transfer statistics.
type Statistics struct {
	// Ticks is the total number of cycles simulated, including reset ticks.
	Ticks uint64
	// Accepted is the number of items taken from the producer.
	Accepted uint64
	// Emitted is the number of items delivered to the consumer.
	Emitted uint64
	// PassThroughs is the number of simultaneous accept+deliver ticks.
	PassThroughs uint64
	// StallTicks is the number of ticks the held item waited on backpressure.
	StallTicks uint64
	// OccupiedTicks is the number of non-reset ticks the slot started full.
	OccupiedTicks uint64
	// Resets is the number of ticks reset was asserted.
	Resets uint64
}

// Throughput returns items delivered per tick.
func (s Statistics) Throughput() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.Emitted) / float64(s.Ticks)
}

// Occupancy returns the fraction of ticks the slot started full.
func (s Statistics) Occupancy() float64 {
	if s.Ticks == 0 {
		return 0
	}
	return float64(s.OccupiedTicks) / float64(s.Ticks)
}

// InFlight returns the number of accepted items not yet delivered. For a
// single-slot stage this is 0 or 1 between resets; reset discards any
// held item, so the difference also counts reset-discarded items.
func (s Statistics) InFlight() uint64 {
	return s.Accepted - s.Emitted
}
