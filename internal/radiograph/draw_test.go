package radiograph

import (
	"image"
	"image/color"
	"testing"
)

func TestFit(t *testing.T) {
	img := testImage(400, 200)

	out, factor := Fit(img, 100)
	if factor != 0.25 {
		t.Errorf("Expected factor 0.25, got %f", factor)
	}
	if b := out.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("Expected 100x50, got %v", b)
	}

	same, factor := Fit(img, 800)
	if factor != 1 || same != image.Image(img) {
		t.Error("small images are returned unchanged")
	}

	p := ScalePoint(Point{40, 80}, 0.25)
	if p.X != 10 || p.Y != 20 {
		t.Errorf("unexpected scaled point %+v", p)
	}
}

func TestOverlay(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 120, 120))
	a := Annotation{Tooth: 46, CEJ: Point{20, 10}, Crest: Point{20, 30}, Apex: Point{20, 100}}
	m, err := Measure(a, Calibration{})
	if err != nil {
		t.Fatal(err)
	}

	out := Overlay(img, []Annotation{a}, []Measurement{m})
	if out.Bounds() != img.Bounds() {
		t.Errorf("overlay changed bounds: %v", out.Bounds())
	}
	if got := out.RGBAAt(20, 30); got != crestColor {
		t.Errorf("Expected crest marker, got %v", got)
	}
	if got := out.RGBAAt(20, 100); got != apexColor {
		t.Errorf("Expected apex marker, got %v", got)
	}
	if got := out.RGBAAt(20, 60); got != lineColor {
		t.Errorf("Expected root axis, got %v", got)
	}
	if img.GrayAt(20, 30) != (color.Gray{}) {
		t.Error("source image was modified")
	}

	// Some label pixels are white
	white := false
	for y := 0; y < 30 && !white; y++ {
		for x := 26; x < 120; x++ {
			if out.RGBAAt(x, y) == (color.RGBA{255, 255, 255, 255}) {
				white = true
				break
			}
		}
	}
	if !white {
		t.Error("Expected label text next to the CEJ")
	}
}
