// Package cursor walks a charting sequence as values are entered.
//
// The cursor is either Inactive or Active at an index into the sequence.
// Inactive is stored as index == len(sequence), so the index is always a
// valid position or the end marker. Consumers pull the active step after
// every transition; the cursor never notifies anyone.
package cursor

import (
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// State is the coarse state of the cursor.
type State int

const (
	Inactive State = iota
	Active
)

// String returns the state name.
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "inactive"
}

// Cursor holds a position into a charting sequence.
type Cursor struct {
	seq   []sequence.Step
	index int
}

// New returns an inactive cursor over seq.
func New(seq []sequence.Step) *Cursor {
	return &Cursor{seq: seq, index: len(seq)}
}

// State reports whether the cursor is active.
func (c *Cursor) State() State {
	if c.index < len(c.seq) {
		return Active
	}
	return Inactive
}

// Index returns the current index; it equals Len() while inactive.
func (c *Cursor) Index() int {
	return c.index
}

// Len returns the length of the sequence.
func (c *Cursor) Len() int {
	return len(c.seq)
}

// Sequence returns the sequence the cursor walks.
func (c *Cursor) Sequence() []sequence.Step {
	return c.seq
}

// Active returns the step under the cursor.
func (c *Cursor) Active() (sequence.Step, bool) {
	if c.State() != Active {
		return sequence.Step{}, false
	}
	return c.seq[c.index], true
}

// Reset makes the cursor inactive.
func (c *Cursor) Reset() {
	c.index = len(c.seq)
}

// Start activates the first step. It reports false on an empty sequence.
func (c *Cursor) Start() bool {
	c.index = 0
	return len(c.seq) > 0
}

// SetPosition jumps to the first step for tooth and surface, narrowed to a
// site when one is given. Without a match the state is left untouched and
// false is returned.
func (c *Cursor) SetPosition(tooth dental.ToothID, surface dental.Surface, site ...dental.Site) bool {
	var want dental.Site
	if len(site) > 0 {
		want = site[0]
	}
	i := sequence.IndexOf(c.seq, tooth, surface, want)
	if i < 0 {
		return false
	}
	c.index = i
	return true
}

// Apply advances past the active step after a successful entry. Applying
// the last step deactivates the cursor and reports completed. It is a no-op
// while inactive.
func (c *Cursor) Apply() (completed bool) {
	if c.State() != Active {
		return false
	}
	c.index++
	return c.index == len(c.seq)
}

// Undo steps back one position, stopping at the first step.
func (c *Cursor) Undo() {
	if c.State() != Active {
		return
	}
	if c.index > 0 {
		c.index--
	}
}

// Redo steps forward one position, stopping at the last step.
func (c *Cursor) Redo() {
	if c.State() != Active {
		return
	}
	if c.index < len(c.seq)-1 {
		c.index++
	}
}

// SetSequence swaps in a rebuilt sequence. An active cursor follows its
// step to the new position when the step still exists, otherwise it
// becomes inactive.
func (c *Cursor) SetSequence(seq []sequence.Step) {
	current, active := c.Active()
	c.seq = seq
	c.index = len(seq)
	if !active {
		return
	}
	if i := sequence.Find(seq, current); i >= 0 {
		c.index = i
	}
}

// Seek activates the step at index i. An index past the end deactivates
// the cursor; a negative index is ignored and reported false.
func (c *Cursor) Seek(i int) bool {
	if i < 0 {
		return false
	}
	if i > len(c.seq) {
		i = len(c.seq)
	}
	c.index = i
	return c.index < len(c.seq)
}
