package sequence

import (
	"fmt"
	"strings"

	"github.com/perioflow/perioflow/internal/dental"
)

// ParseMissing reads a comma or space separated list of FDI tooth numbers.
func ParseMissing(input string) (MissingSet, error) {
	m := NewMissingSet()
	for _, f := range splitList(input) {
		t, err := dental.ParseTooth(f)
		if err != nil {
			return nil, err
		}
		m[t] = true
	}
	return m, nil
}

// FormatMissing is the inverse of ParseMissing.
func FormatMissing(m MissingSet) string {
	teeth := m.Sorted()
	parts := make([]string, len(teeth))
	for i, t := range teeth {
		parts[i] = fmt.Sprintf("%d", t)
	}
	return strings.Join(parts, ", ")
}

// ParseSegments reads "q1b:LR, q2b:LR, ..." and validates the result.
func ParseSegments(input string) ([]Segment, error) {
	var segs []Segment
	for _, f := range splitList(input) {
		id, dir, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("invalid segment %q (expected <id>:<LR|RL>)", f)
		}
		d, err := dental.ParseDirection(dir)
		if err != nil {
			return nil, err
		}
		segs = append(segs, Segment{ID: SegmentID(strings.ToLower(strings.TrimSpace(id))), Direction: d})
	}
	if err := ValidateSegments(segs); err != nil {
		return nil, err
	}
	return segs, nil
}

// FormatSegments is the inverse of ParseSegments.
func FormatSegments(segs []Segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = fmt.Sprintf("%s:%s", s.ID, s.Direction)
	}
	return strings.Join(parts, ", ")
}

func splitList(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
