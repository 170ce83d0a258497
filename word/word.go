// Package word provides the fixed-width data word transferred through an
// elastic buffer stage.
package word

import "fmt"

// Word is a data value carried through a stage. It is backed by a uint64;
// the significant bits are determined by the stage's configured Width.
type Word uint64

// Width is the configured bit width of the words a stage transfers.
type Width int

// MaxWidth is the widest supported word. Word is backed by a uint64.
const MaxWidth = 64

// NewWidth validates w as a data width. Widths outside 1..MaxWidth are
// rejected at construction time.
func NewWidth(w int) (Width, error) {
	if w < 1 || w > MaxWidth {
		return 0, fmt.Errorf("invalid data width %d: must be in 1..%d", w, MaxWidth)
	}
	return Width(w), nil
}

// Bits returns the width as a plain bit count.
func (w Width) Bits() int {
	return int(w)
}

// Mask returns the bit mask selecting the significant bits of a word.
func (w Width) Mask() uint64 {
	if w >= MaxWidth {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}

// Truncate drops bits above the configured width.
func (w Width) Truncate(v Word) Word {
	return Word(uint64(v) & w.Mask())
}

// Format renders v as a zero-padded hex string sized to the width.
func (w Width) Format(v Word) string {
	digits := (int(w) + 3) / 4
	return fmt.Sprintf("0x%0*X", digits, uint64(v))
}
