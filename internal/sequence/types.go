// Package sequence linearizes a periodontal chart into the ordered list of
// charting steps a clinician walks through.
package sequence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/perioflow/perioflow/internal/dental"
)

// Modes selects which measurement types are charted.
type Modes struct {
	PD  bool `yaml:"pd" json:"pd"`
	RE  bool `yaml:"re" json:"re"`
	BOP bool `yaml:"bop" json:"bop"`
	MGJ bool `yaml:"mgj" json:"mgj"`
}

// AllModes enables every measurement type.
func AllModes() Modes {
	return Modes{PD: true, RE: true, BOP: true, MGJ: true}
}

// Enabled reports whether measurement type t is charted.
func (m Modes) Enabled(t dental.MeasurementType) bool {
	switch t {
	case dental.PD:
		return m.PD
	case dental.RE:
		return m.RE
	case dental.BOP:
		return m.BOP
	case dental.MGJ:
		return m.MGJ
	}
	return false
}

// With returns a copy of m with t switched on or off.
func (m Modes) With(t dental.MeasurementType, on bool) Modes {
	switch t {
	case dental.PD:
		m.PD = on
	case dental.RE:
		m.RE = on
	case dental.BOP:
		m.BOP = on
	case dental.MGJ:
		m.MGJ = on
	}
	return m
}

// Any reports whether at least one type is enabled.
func (m Modes) Any() bool {
	return m.PD || m.RE || m.BOP || m.MGJ
}

// String lists the enabled types, e.g. "pd,re,bop".
func (m Modes) String() string {
	var parts []string
	for _, t := range dental.AllMeasurementTypes() {
		if m.Enabled(t) {
			parts = append(parts, string(t))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseModes parses a comma-separated list of measurement types.
// The special value "all" enables everything.
func ParseModes(input string) (Modes, error) {
	var m Modes
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if p == "all" {
			return AllModes(), nil
		}
		t, err := dental.ParseMeasurementType(p)
		if err != nil {
			return Modes{}, err
		}
		m = m.With(t, true)
	}
	return m, nil
}

// SegmentID names one quadrant x surface unit, e.g. "q1b" or "q3l".
type SegmentID string

// NewSegmentID builds the ID for a quadrant and surface.
func NewSegmentID(q dental.Quadrant, s dental.Surface) SegmentID {
	return SegmentID(fmt.Sprintf("q%d%c", int(q), s[0]))
}

// Parts splits the ID into its quadrant and surface.
func (id SegmentID) Parts() (dental.Quadrant, dental.Surface, error) {
	s := strings.ToLower(string(id))
	if len(s) != 3 || s[0] != 'q' || s[1] < '1' || s[1] > '4' {
		return 0, "", fmt.Errorf("invalid segment id: %q (expected q<1-4><b|l>)", string(id))
	}
	surface, err := dental.ParseSurface(s[2:])
	if err != nil {
		return 0, "", fmt.Errorf("invalid segment id: %q: %w", string(id), err)
	}
	return dental.Quadrant(s[1] - '0'), surface, nil
}

// Segment is one entry of the custom traversal order.
type Segment struct {
	ID        SegmentID        `yaml:"id" json:"id"`
	Direction dental.Direction `yaml:"direction" json:"direction"`
}

// DefaultSegments is the usual full-mouth path: upper buccal left to right,
// upper lingual back, lower buccal left to right, lower lingual back.
func DefaultSegments() []Segment {
	return []Segment{
		{ID: "q1b", Direction: dental.LR},
		{ID: "q2b", Direction: dental.LR},
		{ID: "q2l", Direction: dental.RL},
		{ID: "q1l", Direction: dental.RL},
		{ID: "q4b", Direction: dental.LR},
		{ID: "q3b", Direction: dental.LR},
		{ID: "q3l", Direction: dental.RL},
		{ID: "q4l", Direction: dental.RL},
	}
}

// ValidateSegments reports unknown IDs, bad directions and duplicates.
// Build itself tolerates all of these.
func ValidateSegments(segments []Segment) error {
	seen := make(map[SegmentID]bool, len(segments))
	for i, seg := range segments {
		if _, _, err := seg.ID.Parts(); err != nil {
			return fmt.Errorf("segment %d: %w", i+1, err)
		}
		if seg.Direction != dental.LR && seg.Direction != dental.RL {
			return fmt.Errorf("segment %d (%s): invalid direction %q", i+1, seg.ID, seg.Direction)
		}
		if seen[seg.ID] {
			return fmt.Errorf("segment %d: %s listed twice", i+1, seg.ID)
		}
		seen[seg.ID] = true
	}
	return nil
}

// MissingSet is the set of teeth excluded from charting.
type MissingSet map[dental.ToothID]bool

// NewMissingSet builds a set from a list of teeth.
func NewMissingSet(teeth ...dental.ToothID) MissingSet {
	m := make(MissingSet, len(teeth))
	for _, t := range teeth {
		m[t] = true
	}
	return m
}

// Has reports whether t is missing. A nil set has no missing teeth.
func (m MissingSet) Has(t dental.ToothID) bool {
	return m[t]
}

// Sorted returns the missing teeth in ascending order.
func (m MissingSet) Sorted() []dental.ToothID {
	out := make([]dental.ToothID, 0, len(m))
	for t, missing := range m {
		if missing {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy.
func (m MissingSet) Clone() MissingSet {
	return NewMissingSet(m.Sorted()...)
}

// Step is one unit of charting work. BOP steps carry Sites (all three, in
// bleeding-button order); every other step carries a single Site.
type Step struct {
	Tooth   dental.ToothID         `json:"tooth"`
	Surface dental.Surface         `json:"surface"`
	Site    dental.Site            `json:"site,omitempty"`
	Sites   []dental.Site          `json:"sites,omitempty"`
	Type    dental.MeasurementType `json:"type"`
}

// Equal reports value equality.
func (s Step) Equal(o Step) bool {
	if s.Tooth != o.Tooth || s.Surface != o.Surface || s.Site != o.Site || s.Type != o.Type {
		return false
	}
	if len(s.Sites) != len(o.Sites) {
		return false
	}
	for i := range s.Sites {
		if s.Sites[i] != o.Sites[i] {
			return false
		}
	}
	return true
}

// Covers reports whether the step records data for site.
func (s Step) Covers(site dental.Site) bool {
	if s.Site == site {
		return true
	}
	for _, x := range s.Sites {
		if x == site {
			return true
		}
	}
	return false
}

// String renders the step as "16 buccal mb pd".
func (s Step) String() string {
	if len(s.Sites) > 0 {
		names := make([]string, len(s.Sites))
		for i, x := range s.Sites {
			names[i] = string(x)
		}
		return fmt.Sprintf("%d %s [%s] %s", s.Tooth, s.Surface, strings.Join(names, " "), s.Type)
	}
	return fmt.Sprintf("%d %s %s %s", s.Tooth, s.Surface, s.Site, s.Type)
}
