package sequence

import "github.com/perioflow/perioflow/internal/dental"

// IndexOf returns the index of the first step for tooth and surface, or -1.
// When site is non-empty the step must also record that site.
func IndexOf(seq []Step, tooth dental.ToothID, surface dental.Surface, site dental.Site) int {
	for i, s := range seq {
		if s.Tooth != tooth || s.Surface != surface {
			continue
		}
		if site != "" && !s.Covers(site) {
			continue
		}
		return i
	}
	return -1
}

// Find returns the index of the first step value-equal to step, or -1.
func Find(seq []Step, step Step) int {
	for i, s := range seq {
		if s.Equal(step) {
			return i
		}
	}
	return -1
}

// SurfaceSites returns the probing order used by the sequence for a tooth
// surface, read from its PD steps, or its RE steps when PD is off.
// It returns nil when neither is charted there.
func SurfaceSites(seq []Step, tooth dental.ToothID, surface dental.Surface) []dental.Site {
	for _, t := range []dental.MeasurementType{dental.PD, dental.RE} {
		var sites []dental.Site
		for _, s := range seq {
			if s.Tooth == tooth && s.Surface == surface && s.Type == t {
				sites = append(sites, s.Site)
			}
		}
		if len(sites) > 0 {
			return sites
		}
	}
	return nil
}

// CountFor counts the steps for one tooth surface.
func CountFor(seq []Step, tooth dental.ToothID, surface dental.Surface) int {
	n := 0
	for _, s := range seq {
		if s.Tooth == tooth && s.Surface == surface {
			n++
		}
	}
	return n
}
