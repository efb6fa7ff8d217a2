package keypad

import (
	"strconv"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// Buffer accumulates keystrokes for one entry.
type Buffer struct {
	digits   []byte
	negative bool
	selected [3]bool
}

// Digit appends a digit. Two digits is the most any range needs.
func (b *Buffer) Digit(d byte) {
	if len(b.digits) >= 2 {
		return
	}
	b.digits = append(b.digits, d)
}

// ToggleSign flips the sign of the pending value.
func (b *Buffer) ToggleSign() {
	b.negative = !b.negative
}

// Backspace removes the last digit, then the sign.
func (b *Buffer) Backspace() {
	if n := len(b.digits); n > 0 {
		b.digits = b.digits[:n-1]
		return
	}
	b.negative = false
}

// Toggle flips bleeding button i (0-2).
func (b *Buffer) Toggle(i int) {
	if i >= 0 && i < len(b.selected) {
		b.selected[i] = !b.selected[i]
	}
}

// Selected maps toggled buttons to the sites of a BOP step.
func (b *Buffer) Selected(step sequence.Step) []dental.Site {
	return b.Pick(step.Sites)
}

// Pick maps toggled buttons to sites in button order.
func (b *Buffer) Pick(sites []dental.Site) []dental.Site {
	var out []dental.Site
	for i, on := range b.selected {
		if on && i < len(sites) {
			out = append(out, sites[i])
		}
	}
	return out
}

// Value returns the pending value, false when no digit was typed.
func (b *Buffer) Value() (int, bool) {
	if len(b.digits) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(string(b.digits))
	if err != nil {
		return 0, false
	}
	if b.negative {
		v = -v
	}
	return v, true
}

// Complete reports whether typing another digit could not keep the value
// inside r, so the entry can be committed without waiting for "enter".
func (b *Buffer) Complete(r chart.Range) bool {
	v, ok := b.Value()
	if !ok {
		return false
	}
	if len(b.digits) >= 2 || v == 0 {
		return true
	}
	next := v * 10
	return next > r.Max || next < r.Min
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.digits = b.digits[:0]
	b.negative = false
	b.selected = [3]bool{}
}

// String renders the pending entry, e.g. "-1".
func (b *Buffer) String() string {
	s := string(b.digits)
	if b.negative {
		s = "-" + s
	}
	return s
}
