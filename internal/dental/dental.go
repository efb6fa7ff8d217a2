// Package dental defines the periodontal chart topology: FDI tooth numbers,
// quadrants, surfaces, probing sites and measurement types.
package dental

import (
	"fmt"
	"strconv"
	"strings"
)

// ToothID is a tooth number in FDI notation (11-18, 21-28, 31-38, 41-48).
type ToothID int

// Quadrant returns the quadrant digit of the tooth.
func (t ToothID) Quadrant() Quadrant {
	return Quadrant(int(t) / 10)
}

// Valid reports whether t is one of the 32 permanent teeth.
func (t ToothID) Valid() bool {
	q, n := int(t)/10, int(t)%10
	return q >= 1 && q <= 4 && n >= 1 && n <= 8
}

// Upper reports whether the tooth is in the maxilla.
func (t ToothID) Upper() bool {
	q := t.Quadrant()
	return q == UpperRight || q == UpperLeft
}

// Quadrant is one of the four groups of eight teeth.
type Quadrant int

const (
	UpperRight Quadrant = 1
	UpperLeft  Quadrant = 2
	LowerLeft  Quadrant = 3
	LowerRight Quadrant = 4
)

// AllQuadrants returns the quadrants in FDI order.
func AllQuadrants() []Quadrant {
	return []Quadrant{UpperRight, UpperLeft, LowerLeft, LowerRight}
}

// String returns a short human name for the quadrant.
func (q Quadrant) String() string {
	switch q {
	case UpperRight:
		return "upper-right"
	case UpperLeft:
		return "upper-left"
	case LowerLeft:
		return "lower-left"
	case LowerRight:
		return "lower-right"
	default:
		return fmt.Sprintf("quadrant(%d)", int(q))
	}
}

// Surface is the side of a tooth being charted.
type Surface string

const (
	Buccal  Surface = "buccal"
	Lingual Surface = "lingual"
)

// AllSurfaces returns both surfaces, buccal first.
func AllSurfaces() []Surface {
	return []Surface{Buccal, Lingual}
}

// ParseSurface accepts the full name or the one-letter shorthand.
// "palatal" is accepted as the upper-arch name of the lingual surface.
func ParseSurface(s string) (Surface, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buccal", "b", "facial", "f":
		return Buccal, nil
	case "lingual", "l", "palatal", "p":
		return Lingual, nil
	default:
		return "", fmt.Errorf("invalid surface: %s (valid: buccal, lingual)", s)
	}
}

// Site is the data key of one probing position. The key is fixed per
// surface; the order sites are visited in is decided by the topology tables.
type Site string

const (
	SiteDB Site = "db"
	SiteB  Site = "b"
	SiteMB Site = "mb"
	SiteDL Site = "dl"
	SiteL  Site = "l"
	SiteML Site = "ml"
)

// SiteRole is the anatomical position of a site on its surface.
type SiteRole int

const (
	Distal SiteRole = iota
	Central
	Mesial
)

// String returns the role name.
func (r SiteRole) String() string {
	switch r {
	case Distal:
		return "distal"
	case Central:
		return "central"
	case Mesial:
		return "mesial"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Direction is the traversal direction of a segment, relative to the
// anatomical array order of its quadrant.
type Direction string

const (
	LR Direction = "LR"
	RL Direction = "RL"
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == RL {
		return LR
	}
	return RL
}

// ParseDirection parses "LR" or "RL" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LR":
		return LR, nil
	case "RL":
		return RL, nil
	default:
		return "", fmt.Errorf("invalid direction: %s (valid: LR, RL)", s)
	}
}

// MeasurementType is what a charting step records.
type MeasurementType string

const (
	PD  MeasurementType = "pd"  // probing depth
	RE  MeasurementType = "re"  // recession
	BOP MeasurementType = "bop" // bleeding on probing
	MGJ MeasurementType = "mgj" // mucogingival junction
)

// AllMeasurementTypes returns the types in emission priority.
func AllMeasurementTypes() []MeasurementType {
	return []MeasurementType{PD, RE, BOP, MGJ}
}

// ParseMeasurementType parses a measurement type name.
func ParseMeasurementType(s string) (MeasurementType, error) {
	t := MeasurementType(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range AllMeasurementTypes() {
		if t == valid {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid measurement type: %s (valid: %v)", s, AllMeasurementTypes())
}

// ParseTooth parses an FDI tooth number.
func ParseTooth(s string) (ToothID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid tooth: %q", s)
	}
	t := ToothID(n)
	if !t.Valid() {
		return 0, fmt.Errorf("invalid tooth: %d is not an FDI permanent tooth", n)
	}
	return t, nil
}
