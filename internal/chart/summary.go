package chart

import (
	"github.com/perioflow/perioflow/internal/dental"
)

// sitesPerTooth counts buccal and lingual sites together.
const sitesPerTooth = 6

// Summary holds full-mouth indices. Missing teeth are left out of every
// figure.
type Summary struct {
	PresentTeeth  int     `json:"present_teeth"`
	SitesProbed   int     `json:"sites_probed"`
	MeanPD        float64 `json:"mean_pd"`
	MeanCAL       float64 `json:"mean_cal"`
	MaxCAL        int     `json:"max_cal"`
	PD4Plus       int     `json:"pd_4_plus"`
	PD6Plus       int     `json:"pd_6_plus"`
	BleedingSites int     `json:"bleeding_sites"`
	BOPPercent    float64 `json:"bop_percent"`
	PlaqueSites   int     `json:"plaque_sites"`
	PlaquePercent float64 `json:"plaque_percent"`
}

// Summary computes the indices of the chart. BOP and plaque percentages
// are relative to all sites of present teeth.
func (c *Chart) Summary() Summary {
	missing := c.MissingSet()
	var s Summary
	var pdTotal, calTotal, calSites int

	for _, id := range dental.AllTeeth() {
		if missing.Has(id) {
			continue
		}
		s.PresentTeeth++

		t := c.Teeth[id]
		if t == nil {
			continue
		}
		for _, surface := range dental.AllSurfaces() {
			for _, site := range dental.SitesOf(surface) {
				if pd, ok := t.PD[site]; ok {
					s.SitesProbed++
					pdTotal += pd
					if pd >= 4 {
						s.PD4Plus++
					}
					if pd >= 6 {
						s.PD6Plus++
					}
				}
				if cal, ok := t.CAL(site); ok {
					calSites++
					calTotal += cal
					if cal > s.MaxCAL {
						s.MaxCAL = cal
					}
				}
				if t.Bleeding[site] {
					s.BleedingSites++
				}
				if t.Plaque[site] {
					s.PlaqueSites++
				}
			}
		}
	}

	if s.SitesProbed > 0 {
		s.MeanPD = float64(pdTotal) / float64(s.SitesProbed)
	}
	if calSites > 0 {
		s.MeanCAL = float64(calTotal) / float64(calSites)
	}
	if total := s.PresentTeeth * sitesPerTooth; total > 0 {
		s.BOPPercent = 100 * float64(s.BleedingSites) / float64(total)
		s.PlaquePercent = 100 * float64(s.PlaqueSites) / float64(total)
	}
	return s
}
