// Package keypad applies numeric keypad input at the charting cursor.
package keypad

import (
	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

var (
	// ErrInactive is returned when input arrives with no active step.
	ErrInactive = errors.New("no active charting step")
	// ErrWrongStep is returned when the input kind does not fit the step.
	ErrWrongStep = errors.New("input does not match the active step")
)

// Cursor is the part of the charting cursor the keypad drives.
type Cursor interface {
	Active() (sequence.Step, bool)
	Apply() bool
}

// Recorder stores values into chart data.
type Recorder interface {
	Record(step sequence.Step, value int) error
	RecordBleeding(step sequence.Step, selected []dental.Site) error
	SetPlaque(id dental.ToothID, site dental.Site, on bool) error
	SetSuppuration(id dental.ToothID, site dental.Site, on bool) error
	SetMobility(id dental.ToothID, grade int) error
}

// Result describes one applied entry.
type Result struct {
	Step      sequence.Step
	Value     int
	Bleeding  []dental.Site
	Flag      *chart.Flag
	Completed bool

	// Mark is set when the entry recorded a finding instead of a value.
	// Marked holds the sites it was recorded at.
	Mark   Mark
	Marked []dental.Site
}

// Interpreter writes keypad values at the active step and advances the
// cursor. Values outside the clinical range are applied and flagged.
type Interpreter struct {
	cursor Cursor
	chart  Recorder
	buf    Buffer
	mark   Mark
}

// New creates an interpreter bound to a cursor and a chart.
func New(c Cursor, r Recorder) *Interpreter {
	return &Interpreter{cursor: c, chart: r}
}

// Enter applies a numeric value to a PD, RE or MGJ step.
func (k *Interpreter) Enter(value int) (Result, error) {
	step, ok := k.cursor.Active()
	if !ok {
		return Result{}, ErrInactive
	}
	if step.Type == dental.BOP {
		return Result{}, errors.Wrapf(ErrWrongStep, "%s expects bleeding sites", step)
	}
	if err := k.chart.Record(step, value); err != nil {
		return Result{}, errors.Wrapf(err, "record %s", step)
	}
	k.buf.Clear()
	return Result{
		Step:      step,
		Value:     value,
		Flag:      chart.Check(step.Type, value),
		Completed: k.cursor.Apply(),
	}, nil
}

// Bleeding applies a BOP step: the selected sites bleed, the rest of the
// step's sites are recorded as not bleeding.
func (k *Interpreter) Bleeding(selected []dental.Site) (Result, error) {
	step, ok := k.cursor.Active()
	if !ok {
		return Result{}, ErrInactive
	}
	if step.Type != dental.BOP {
		return Result{}, errors.Wrapf(ErrWrongStep, "%s expects a value", step)
	}
	if err := k.chart.RecordBleeding(step, selected); err != nil {
		return Result{}, errors.Wrapf(err, "record %s", step)
	}
	k.buf.Clear()
	return Result{
		Step:      step,
		Bleeding:  selected,
		Completed: k.cursor.Apply(),
	}, nil
}

// Press feeds one keystroke. Digits build a value that is committed on
// "enter" or as soon as no further digit could keep it in range. On a BOP
// step "1".."3" toggle the bleeding buttons in on-screen order and "enter"
// commits the selection. In a mark mode the keys record the mark instead,
// see SetMark. committed reports whether the key applied an entry.
func (k *Interpreter) Press(key string) (res Result, committed bool, err error) {
	step, ok := k.cursor.Active()
	if !ok {
		return Result{}, false, ErrInactive
	}

	if k.mark != NoMark {
		return k.pressMark(step, key)
	}

	if step.Type == dental.BOP {
		switch key {
		case "1", "2", "3":
			k.buf.Toggle(int(key[0] - '1'))
			return Result{}, false, nil
		case "0":
			k.buf.Clear()
			return Result{}, false, nil
		case "enter":
			res, err := k.Bleeding(k.buf.Selected(step))
			return res, err == nil, err
		}
		return Result{}, false, nil
	}

	switch key {
	case "-":
		k.buf.ToggleSign()
	case "backspace":
		k.buf.Backspace()
	case "enter":
		v, ok := k.buf.Value()
		if !ok {
			return Result{}, false, nil
		}
		res, err := k.Enter(v)
		return res, err == nil, err
	default:
		if len(key) != 1 || key[0] < '0' || key[0] > '9' {
			return Result{}, false, nil
		}
		k.buf.Digit(key[0])
		if k.buf.Complete(chart.Ranges[step.Type]) {
			v, _ := k.buf.Value()
			res, err := k.Enter(v)
			return res, err == nil, err
		}
	}
	return Result{}, false, nil
}

// Pending returns the partial entry for display.
func (k *Interpreter) Pending() string {
	return k.buf.String()
}

// Selection returns which bleeding buttons are toggled on.
func (k *Interpreter) Selection() [3]bool {
	return k.buf.selected
}

// Clear drops partial input and any mark mode, e.g. after the cursor was
// moved elsewhere.
func (k *Interpreter) Clear() {
	k.buf.Clear()
	k.mark = NoMark
}
