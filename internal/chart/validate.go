package chart

import (
	"fmt"

	"github.com/perioflow/perioflow/internal/dental"
)

// Range is the expected clinical range of a measurement, inclusive.
type Range struct {
	Min int
	Max int
}

// Ranges lists the expected values per measurement type. Values outside are
// flagged for review, never rejected.
var Ranges = map[dental.MeasurementType]Range{
	dental.PD:  {Min: 0, Max: 15},
	dental.RE:  {Min: -10, Max: 10},
	dental.MGJ: {Min: 0, Max: 15},
}

// Flag describes a value worth a second look.
type Flag struct {
	Type  dental.MeasurementType
	Value int
	Range Range
}

// String renders the flag as advice for the clinician.
func (f Flag) String() string {
	return fmt.Sprintf("%s %d outside expected range %d..%d", f.Type, f.Value, f.Range.Min, f.Range.Max)
}

// Check returns a flag when v is outside the expected range of t.
func Check(t dental.MeasurementType, v int) *Flag {
	r, ok := Ranges[t]
	if !ok || (v >= r.Min && v <= r.Max) {
		return nil
	}
	return &Flag{Type: t, Value: v, Range: r}
}
