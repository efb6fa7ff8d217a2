package dental

// quadrantTeeth lists each quadrant in anatomical array order, which is also
// the screen order from left to right as the chart is drawn:
//
//	18 .. 11 | 21 .. 28
//	48 .. 41 | 31 .. 38
var quadrantTeeth = map[Quadrant][]ToothID{
	UpperRight: {18, 17, 16, 15, 14, 13, 12, 11},
	UpperLeft:  {21, 22, 23, 24, 25, 26, 27, 28},
	LowerLeft:  {31, 32, 33, 34, 35, 36, 37, 38},
	LowerRight: {48, 47, 46, 45, 44, 43, 42, 41},
}

type surfaceDirection struct {
	surface   Surface
	direction Direction
}

// probingSites is keyed by direction relative to the anatomical key order
// distal, central, mesial. Buccal and lingual rows are separate entries so
// either can change without touching the other.
var probingSites = map[surfaceDirection][3]Site{
	{Buccal, LR}:  {SiteDB, SiteB, SiteMB},
	{Buccal, RL}:  {SiteMB, SiteB, SiteDB},
	{Lingual, LR}: {SiteDL, SiteL, SiteML},
	{Lingual, RL}: {SiteML, SiteL, SiteDL},
}

type quadrantSurface struct {
	quadrant Quadrant
	surface  Surface
}

// bleedingButtons mirrors the fixed on-screen layout of the three bleeding
// buttons under each tooth. It is a per-quadrant table on purpose: the
// layout for Q2/Q3 is a charting convention, not something derived.
var bleedingButtons = map[quadrantSurface][3]Site{
	{UpperRight, Buccal}:  {SiteDB, SiteB, SiteMB},
	{UpperRight, Lingual}: {SiteDL, SiteL, SiteML},
	{UpperLeft, Buccal}:   {SiteMB, SiteB, SiteDB},
	{UpperLeft, Lingual}:  {SiteML, SiteL, SiteDL},
	{LowerLeft, Buccal}:   {SiteMB, SiteB, SiteDB},
	{LowerLeft, Lingual}:  {SiteML, SiteL, SiteDL},
	{LowerRight, Buccal}:  {SiteDB, SiteB, SiteMB},
	{LowerRight, Lingual}: {SiteDL, SiteL, SiteML},
}

var siteRoles = map[Site]SiteRole{
	SiteDB: Distal, SiteB: Central, SiteMB: Mesial,
	SiteDL: Distal, SiteL: Central, SiteML: Mesial,
}

// TeethForQuadrant returns a copy of the quadrant's teeth in anatomical order.
// Unknown quadrants yield nil.
func TeethForQuadrant(q Quadrant) []ToothID {
	teeth := quadrantTeeth[q]
	if teeth == nil {
		return nil
	}
	out := make([]ToothID, len(teeth))
	copy(out, teeth)
	return out
}

// AllTeeth returns the 32 teeth in FDI order (11..18, 21..28, 31..38, 41..48).
func AllTeeth() []ToothID {
	teeth := make([]ToothID, 0, 32)
	for _, q := range AllQuadrants() {
		for n := 1; n <= 8; n++ {
			teeth = append(teeth, ToothID(int(q)*10+n))
		}
	}
	return teeth
}

// SitesForSurface returns the three sites of a surface in key order (LR) or
// reversed (RL).
func SitesForSurface(s Surface, d Direction) [3]Site {
	return probingSites[surfaceDirection{s, d}]
}

// BleedingButtonSites returns the site order of the bleeding buttons drawn
// for a tooth of quadrant q. It never depends on the charting direction.
func BleedingButtonSites(q Quadrant, s Surface) [3]Site {
	return bleedingButtons[quadrantSurface{q, s}]
}

// ScreenLeft reports whether the quadrant is drawn on the left half of the
// chart (the patient's right side).
func ScreenLeft(q Quadrant) bool {
	return q == UpperRight || q == LowerRight
}

// SitesOf returns the sites of a surface in anatomical order distal,
// central, mesial.
func SitesOf(s Surface) [3]Site {
	if s == Lingual {
		return [3]Site{SiteDL, SiteL, SiteML}
	}
	return [3]Site{SiteDB, SiteB, SiteMB}
}

// RoleOf returns the anatomical role of a site key.
func RoleOf(site Site) (SiteRole, bool) {
	r, ok := siteRoles[site]
	return r, ok
}

// SurfaceOf returns the surface a site key belongs to.
func SurfaceOf(site Site) (Surface, bool) {
	switch site {
	case SiteDB, SiteB, SiteMB:
		return Buccal, true
	case SiteDL, SiteL, SiteML:
		return Lingual, true
	default:
		return "", false
	}
}

// SiteFor returns the site key for a role on a surface.
func SiteFor(s Surface, r SiteRole) Site {
	return SitesOf(s)[r]
}
