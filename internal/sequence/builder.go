package sequence

import (
	"github.com/perioflow/perioflow/internal/dental"
)

// Build linearizes the chart. Segments are visited in the given order and
// may be any list; unknown segment IDs or directions contribute nothing.
// Missing teeth and disabled types never produce steps. The result is never
// nil.
func Build(missing MissingSet, modes Modes, segments []Segment) []Step {
	steps := make([]Step, 0, estimate(modes, len(segments)))

	for _, seg := range segments {
		quadrant, surface, err := seg.ID.Parts()
		if err != nil {
			continue
		}
		if seg.Direction != dental.LR && seg.Direction != dental.RL {
			continue
		}

		teeth := TeethForSegment(seg, missing)
		probing := ProbingSites(quadrant, surface, seg.Direction)

		for _, tooth := range teeth {
			for _, t := range []dental.MeasurementType{dental.PD, dental.RE} {
				if !modes.Enabled(t) {
					continue
				}
				for _, site := range probing {
					steps = append(steps, Step{Tooth: tooth, Surface: surface, Site: site, Type: t})
				}
			}

			if modes.BOP {
				buttons := dental.BleedingButtonSites(tooth.Quadrant(), surface)
				steps = append(steps, Step{
					Tooth:   tooth,
					Surface: surface,
					Sites:   []dental.Site{buttons[0], buttons[1], buttons[2]},
					Type:    dental.BOP,
				})
			}

			// MGJ is charted on the buccal side only.
			if modes.MGJ && surface == dental.Buccal {
				steps = append(steps, Step{Tooth: tooth, Surface: surface, Site: dental.SiteB, Type: dental.MGJ})
			}
		}
	}

	return steps
}

// TeethForSegment returns the teeth of the segment's quadrant in traversal
// order with missing teeth removed.
func TeethForSegment(seg Segment, missing MissingSet) []dental.ToothID {
	quadrant, _, err := seg.ID.Parts()
	if err != nil {
		return nil
	}
	all := dental.TeethForQuadrant(quadrant)
	teeth := make([]dental.ToothID, 0, len(all))
	for _, t := range all {
		if !missing.Has(t) {
			teeth = append(teeth, t)
		}
	}
	if seg.Direction == dental.RL {
		for i, j := 0, len(teeth)-1; i < j; i, j = i+1, j-1 {
			teeth[i], teeth[j] = teeth[j], teeth[i]
		}
	}
	return teeth
}

// ProbingSites returns the probing order of the three sites of a tooth in
// quadrant q when its segment is walked in direction d. On the right half of
// the chart mesial is drawn left of distal, so the key order is flipped there
// to keep the probe moving the same way across the screen as the teeth.
func ProbingSites(q dental.Quadrant, s dental.Surface, d dental.Direction) [3]dental.Site {
	siteDir := d
	if !dental.ScreenLeft(q) {
		siteDir = d.Reverse()
	}
	return dental.SitesForSurface(s, siteDir)
}

func estimate(m Modes, segments int) int {
	per := 0
	if m.PD {
		per += 3
	}
	if m.RE {
		per += 3
	}
	if m.BOP {
		per++
	}
	if m.MGJ {
		per++
	}
	return per * segments * 8
}
