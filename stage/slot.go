package stage

import "github.com/sarchlab/ebsim/word"

// Slot is the single storage location of a stage. Data is only meaningful
// while Occupied is true.
type Slot struct {
	// Occupied indicates if the slot holds an in-flight data item.
	Occupied bool

	// Data is the held item.
	Data word.Word
}

// Clear resets the slot to empty state.
func (s *Slot) Clear() {
	s.Occupied = false
	s.Data = 0
}
