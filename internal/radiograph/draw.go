package radiograph

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Fit scales img down so it is at most maxWidth pixels wide and returns the
// scale factor applied. Images that already fit are returned as they are
// with a factor of 1.
func Fit(img image.Image, maxWidth int) (image.Image, float64) {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img, 1
	}
	factor := float64(maxWidth) / float64(b.Dx())
	h := int(math.Round(float64(b.Dy()) * factor))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst, factor
}

// ScalePoint maps a point from the original image into one resized by
// factor.
func ScalePoint(p Point, factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

var (
	cejColor   = color.RGBA{255, 200, 0, 255}
	crestColor = color.RGBA{255, 60, 60, 255}
	apexColor  = color.RGBA{60, 160, 255, 255}
	lineColor  = color.RGBA{255, 255, 255, 255}
)

const markerRadius = 3

// Overlay draws landmarks, root axes and measurement labels onto a copy of
// img. measurements may be shorter than annotations; unmeasured roots get
// markers only.
func Overlay(img image.Image, annotations []Annotation, measurements []Measurement) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	for i, a := range annotations {
		drawLine(dst, a.CEJ, a.Apex, lineColor)
		drawMarker(dst, a.CEJ, cejColor)
		drawMarker(dst, a.Crest, crestColor)
		drawMarker(dst, a.Apex, apexColor)
		if i < len(measurements) {
			drawLabel(dst, measurements[i].Label(), int(a.CEJ.X)+2*markerRadius, int(a.CEJ.Y))
		}
	}
	return dst
}

func drawMarker(dst *image.RGBA, p Point, c color.Color) {
	cx, cy := int(math.Round(p.X)), int(math.Round(p.Y))
	for dy := -markerRadius; dy <= markerRadius; dy++ {
		for dx := -markerRadius; dx <= markerRadius; dx++ {
			if dx*dx+dy*dy <= markerRadius*markerRadius {
				setIn(dst, cx+dx, cy+dy, c)
			}
		}
	}
}

// drawLine plots a one-pixel line by sampling along its length.
func drawLine(dst *image.RGBA, a, b Point, c color.Color) {
	steps := int(math.Ceil(math.Max(math.Abs(b.X-a.X), math.Abs(b.Y-a.Y))))
	if steps == 0 {
		setIn(dst, int(a.X), int(a.Y), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := a.X + (b.X-a.X)*t
		y := a.Y + (b.Y-a.Y)*t
		setIn(dst, int(math.Round(x)), int(math.Round(y)), c)
	}
}

func setIn(dst *image.RGBA, x, y int, c color.Color) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.Set(x, y, c)
	}
}

// drawLabel writes white text with a black outline so it stays readable on
// any background.
func drawLabel(dst *image.RGBA, text string, x, y int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	if x+width > dst.Bounds().Dx() {
		x = dst.Bounds().Dx() - width - 1
	}
	if x < 1 {
		x = 1
	}
	y += face.Metrics().Ascent.Ceil() / 2

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				drawer.Dot = fixed.P(x+dx, y+dy)
				drawer.DrawString(text)
			}
		}
	}
	drawer.Src = image.NewUniform(color.White)
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
}
