package radiograph

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/internal/dental"
)

// Point is a position in image pixels.
type Point struct {
	X, Y float64
}

// Calibration converts pixels to millimetres. The zero value is
// uncalibrated.
type Calibration struct {
	MMPerPixelX float64 `json:"mm_per_pixel_x"`
	MMPerPixelY float64 `json:"mm_per_pixel_y"`
	Source      string  `json:"source,omitempty"`
}

// Valid reports whether the calibration can convert distances.
func (c Calibration) Valid() bool {
	return c.MMPerPixelX > 0 && c.MMPerPixelY > 0
}

// Distance returns the length between a and b in mm, or false when
// uncalibrated.
func (c Calibration) Distance(a, b Point) (float64, bool) {
	if !c.Valid() {
		return 0, false
	}
	dx := (b.X - a.X) * c.MMPerPixelX
	dy := (b.Y - a.Y) * c.MMPerPixelY
	return math.Hypot(dx, dy), true
}

// Scaled returns the calibration of the image resized by factor.
func (c Calibration) Scaled(factor float64) Calibration {
	if !c.Valid() || factor <= 0 {
		return c
	}
	return Calibration{MMPerPixelX: c.MMPerPixelX / factor, MMPerPixelY: c.MMPerPixelY / factor, Source: c.Source}
}

// CalibrationFromReference calibrates from an object of known length
// between a and b, such as a ruler or an implant of known size.
func CalibrationFromReference(a, b Point, mm float64) (Calibration, error) {
	px := math.Hypot(b.X-a.X, b.Y-a.Y)
	if px == 0 {
		return Calibration{}, errors.New("reference points coincide")
	}
	if mm <= 0 {
		return Calibration{}, errors.Newf("reference length must be positive, got %g", mm)
	}
	s := mm / px
	return Calibration{MMPerPixelX: s, MMPerPixelY: s, Source: "reference"}, nil
}

// Annotation holds the landmarks of one root surface.
type Annotation struct {
	Tooth dental.ToothID `json:"tooth"`
	// CEJ is the cemento-enamel junction, Crest the alveolar crest and Apex
	// the root apex.
	CEJ   Point `json:"cej"`
	Crest Point `json:"crest"`
	Apex  Point `json:"apex"`
}

// Stage is the periodontitis stage from radiographic bone loss.
type Stage int

const (
	StageI Stage = iota + 1
	StageII
	StageIII
)

func (s Stage) String() string {
	switch s {
	case StageI:
		return "I"
	case StageII:
		return "II"
	case StageIII:
		return "III"
	default:
		return "?"
	}
}

// StageFor maps a bone-loss percentage to a stage: below 15% is stage I,
// up to a third is stage II, beyond is stage III.
func StageFor(percent float64) Stage {
	switch {
	case percent < 15:
		return StageI
	case percent <= 33:
		return StageII
	default:
		return StageIII
	}
}

// Grade is the rate of progression estimated from bone loss and age.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// Measurement is the result of measuring one annotation.
type Measurement struct {
	Tooth      dental.ToothID `json:"tooth"`
	BoneLossPx float64        `json:"bone_loss_px"`
	RootPx     float64        `json:"root_px"`
	BoneLossMM float64        `json:"bone_loss_mm,omitempty"`
	RootMM     float64        `json:"root_mm,omitempty"`
	Calibrated bool           `json:"calibrated"`
	Percent    float64        `json:"percent"`
	Stage      Stage          `json:"stage"`
}

// Measure computes bone loss as the CEJ-to-crest distance over the
// CEJ-to-apex distance. Millimetres are filled in when cal is valid.
func Measure(a Annotation, cal Calibration) (Measurement, error) {
	m := Measurement{
		Tooth:      a.Tooth,
		BoneLossPx: math.Hypot(a.Crest.X-a.CEJ.X, a.Crest.Y-a.CEJ.Y),
		RootPx:     math.Hypot(a.Apex.X-a.CEJ.X, a.Apex.Y-a.CEJ.Y),
	}
	if m.RootPx == 0 {
		return Measurement{}, errors.Newf("tooth %d: apex and CEJ coincide", a.Tooth)
	}

	loss, root := m.BoneLossPx, m.RootPx
	if mmLoss, ok := cal.Distance(a.CEJ, a.Crest); ok {
		m.BoneLossMM = mmLoss
		m.RootMM, _ = cal.Distance(a.CEJ, a.Apex)
		m.Calibrated = true
		loss, root = m.BoneLossMM, m.RootMM
	}

	m.Percent = math.Min(100, loss/root*100)
	m.Stage = StageFor(m.Percent)
	return m, nil
}

// Grade estimates progression from the percentage of bone loss divided by
// the patient's age: under 0.25 is grade A, up to 1.0 grade B, above grade C.
func (m Measurement) Grade(age int) (Grade, error) {
	if age <= 0 {
		return "", errors.Newf("invalid age %d", age)
	}
	ratio := m.Percent / float64(age)
	switch {
	case ratio < 0.25:
		return GradeA, nil
	case ratio <= 1.0:
		return GradeB, nil
	default:
		return GradeC, nil
	}
}

// Label is the short text drawn next to a measured root.
func (m Measurement) Label() string {
	if m.Calibrated {
		return fmt.Sprintf("%d %.0f%% %.1fmm %s", m.Tooth, m.Percent, m.BoneLossMM, m.Stage)
	}
	return fmt.Sprintf("%d %.0f%% %s", m.Tooth, m.Percent, m.Stage)
}
