package radiograph

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 10)})
		}
	}
	return img
}

func mustNewElement(t *testing.T, tg tag.Tag, value interface{}) *dicom.Element {
	t.Helper()
	elem, err := dicom.NewElement(tg, value)
	if err != nil {
		t.Fatalf("failed to create element %v: %v", tg, err)
	}
	return elem
}

func writeDICOM(t *testing.T, path string, width, height int, spacing []string) {
	t.Helper()
	nativeFrame := frame.NewNativeFrame[uint16](16, height, width, width*height, 1)
	for i := range nativeFrame.RawData {
		nativeFrame.RawData[i] = uint16(i * 100)
	}

	elements := []*dicom.Element{
		mustNewElement(t, tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.1.3"}),
		mustNewElement(t, tag.MediaStorageSOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.2"}),
		mustNewElement(t, tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}),
		mustNewElement(t, tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.1.3"}),
		mustNewElement(t, tag.SOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.2"}),
		mustNewElement(t, tag.Modality, []string{"IO"}),
		mustNewElement(t, tag.Rows, []int{height}),
		mustNewElement(t, tag.Columns, []int{width}),
		mustNewElement(t, tag.BitsAllocated, []int{16}),
		mustNewElement(t, tag.BitsStored, []int{12}),
		mustNewElement(t, tag.HighBit, []int{11}),
		mustNewElement(t, tag.PixelRepresentation, []int{0}),
		mustNewElement(t, tag.SamplesPerPixel, []int{1}),
		mustNewElement(t, tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
	}
	if spacing != nil {
		elements = append(elements, mustNewElement(t, tag.PixelSpacing, spacing))
	}
	elements = append(elements, mustNewElement(t, tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{Encapsulated: false, NativeData: nativeFrame}},
	}))

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if err := dicom.Write(f, dicom.Dataset{Elements: elements}); err != nil {
		t.Fatalf("write DICOM: %v", err)
	}
}

func TestLoad_DICOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bitewing.dcm")
	writeDICOM(t, path, 8, 6, []string{"0.500000", "0.250000"})

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Format != "dicom" {
		t.Errorf("Expected dicom format, got %s", r.Format)
	}
	if b := r.Image.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("Expected 8x6, got %v", b)
	}
	// PixelSpacing is row spacing then column spacing
	if r.Calibration.MMPerPixelY != 0.5 || r.Calibration.MMPerPixelX != 0.25 {
		t.Errorf("unexpected calibration %+v", r.Calibration)
	}

	// Detected by preamble without the extension
	bare := filepath.Join(dir, "IM000001")
	writeDICOM(t, bare, 4, 4, nil)
	r, err = Load(bare)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Format != "dicom" || r.Calibration.Valid() {
		t.Errorf("Expected uncalibrated DICOM, got %s %+v", r.Format, r.Calibration)
	}
}

func TestLoad_ImageFormats(t *testing.T) {
	dir := t.TempDir()
	img := testImage(12, 7)

	encoders := map[string]func(*os.File) error{
		"png":  func(f *os.File) error { return png.Encode(f, img) },
		"tiff": func(f *os.File) error { return tiff.Encode(f, img, nil) },
		"bmp":  func(f *os.File) error { return bmp.Encode(f, img) },
	}

	for format, encode := range encoders {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "xray."+format)
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := encode(f); err != nil {
				t.Fatalf("encode: %v", err)
			}
			_ = f.Close()

			r, err := Load(path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if r.Format != format {
				t.Errorf("Expected format %s, got %s", format, r.Format)
			}
			if b := r.Image.Bounds(); b.Dx() != 12 || b.Dy() != 7 {
				t.Errorf("Expected 12x7, got %v", b)
			}
			if r.Calibration.Valid() {
				t.Error("plain images carry no calibration")
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "absent.png")); err == nil {
		t.Error("Expected error for missing file")
	}
	junk := filepath.Join(dir, "junk.jpg")
	if err := os.WriteFile(junk, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(junk); err == nil {
		t.Error("Expected error for undecodable file")
	}
}
