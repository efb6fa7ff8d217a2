package keypad

import (
	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// Mark selects a finding the keypad records on the active tooth instead of
// the step value.
type Mark int

const (
	NoMark Mark = iota
	Plaque
	Suppuration
	Mobility
)

func (m Mark) String() string {
	switch m {
	case Plaque:
		return "plaque"
	case Suppuration:
		return "suppuration"
	case Mobility:
		return "mobility"
	}
	return "none"
}

// SetMark switches the keypad into a mark mode. For Plaque and Suppuration
// "1".."3" toggle the sites of the active surface in on-screen order and
// "enter" records them. For Mobility a digit 0-3 records the grade. The
// cursor never moves and the mode ends after one entry. NoMark goes back to
// charting values. Pending input is dropped either way.
func (k *Interpreter) SetMark(m Mark) {
	k.buf.Clear()
	k.mark = m
}

// Mark returns the active mark mode.
func (k *Interpreter) Mark() Mark {
	return k.mark
}

// MarkButtons returns the sites behind buttons 1..3 for a mark on step.
func MarkButtons(step sequence.Step) [3]dental.Site {
	return dental.BleedingButtonSites(step.Tooth.Quadrant(), step.Surface)
}

// MarkSites records plaque or suppuration on the three sites of the active
// surface: selected sites on, the others off.
func (k *Interpreter) MarkSites(m Mark, selected []dental.Site) (Result, error) {
	step, ok := k.cursor.Active()
	if !ok {
		return Result{}, ErrInactive
	}
	var set func(dental.ToothID, dental.Site, bool) error
	switch m {
	case Plaque:
		set = k.chart.SetPlaque
	case Suppuration:
		set = k.chart.SetSuppuration
	default:
		return Result{}, errors.Newf("%s is not recorded per site", m)
	}
	for _, site := range dental.SitesOf(step.Surface) {
		if err := set(step.Tooth, site, hasSite(selected, site)); err != nil {
			return Result{}, errors.Wrapf(err, "record %s on %d", m, step.Tooth)
		}
	}
	k.buf.Clear()
	k.mark = NoMark
	return Result{Step: step, Mark: m, Marked: selected}, nil
}

// SetMobility records the mobility grade of the active tooth.
func (k *Interpreter) SetMobility(grade int) (Result, error) {
	step, ok := k.cursor.Active()
	if !ok {
		return Result{}, ErrInactive
	}
	if err := k.chart.SetMobility(step.Tooth, grade); err != nil {
		return Result{}, errors.Wrapf(err, "record mobility on %d", step.Tooth)
	}
	k.buf.Clear()
	k.mark = NoMark
	return Result{Step: step, Mark: Mobility, Value: grade}, nil
}

func (k *Interpreter) pressMark(step sequence.Step, key string) (Result, bool, error) {
	if k.mark == Mobility {
		if len(key) != 1 || key[0] < '0' || key[0] > '3' {
			return Result{}, false, nil
		}
		res, err := k.SetMobility(int(key[0] - '0'))
		return res, err == nil, err
	}
	switch key {
	case "1", "2", "3":
		k.buf.Toggle(int(key[0] - '1'))
	case "0":
		k.buf.selected = [3]bool{}
	case "enter":
		buttons := MarkButtons(step)
		res, err := k.MarkSites(k.mark, k.buf.Pick(buttons[:]))
		return res, err == nil, err
	}
	return Result{}, false, nil
}

func hasSite(sites []dental.Site, s dental.Site) bool {
	for _, x := range sites {
		if x == s {
			return true
		}
	}
	return false
}
