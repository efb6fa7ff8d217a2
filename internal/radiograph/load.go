// Package radiograph measures radiographic bone loss on dental X-rays.
//
// Images are loaded from DICOM, TIFF, BMP, PNG or JPEG. Landmarks are
// placed by the caller; the package turns them into bone-loss percentages,
// periodontitis stage and grade, and draws them back onto the image.
package radiograph

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Radiograph is a decoded image with its pixel calibration, if known.
type Radiograph struct {
	Image       image.Image
	Calibration Calibration
	Format      string
}

// Load reads a radiograph. DICOM files are recognised by extension or by
// their "DICM" preamble; everything else goes through the image decoders.
func Load(path string) (*Radiograph, error) {
	isDICOM, err := looksLikeDICOM(path)
	if err != nil {
		return nil, err
	}
	if isDICOM {
		return loadDICOM(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open radiograph")
	}
	defer func() { _ = f.Close() }()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "decode %s", filepath.Base(path)),
			"supported formats: dcm, tiff, bmp, png, jpeg")
	}
	return &Radiograph{Image: img, Format: format}, nil
}

func looksLikeDICOM(path string) (bool, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm", ".dicom":
		return true, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrap(err, "open radiograph")
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 132)
	n, _ := f.Read(head)
	return n == len(head) && string(head[128:]) == "DICM", nil
}

func loadDICOM(path string) (*Radiograph, error) {
	ds, err := dicom.ParseFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "parse DICOM")
	}

	elem, err := ds.FindElementByTag(tag.PixelData)
	if err != nil {
		return nil, errors.Wrap(err, "DICOM has no pixel data")
	}
	info, ok := elem.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || len(info.Frames) == 0 {
		return nil, errors.New("DICOM pixel data has no frames")
	}
	img, err := info.Frames[0].GetImage()
	if err != nil {
		return nil, errors.Wrap(err, "decode DICOM frame")
	}

	return &Radiograph{
		Image:       img,
		Calibration: dicomCalibration(ds),
		Format:      "dicom",
	}, nil
}

// dicomCalibration reads PixelSpacing (row spacing, column spacing) in mm,
// falling back to ImagerPixelSpacing as used by intraoral sensors.
func dicomCalibration(ds dicom.Dataset) Calibration {
	for _, t := range []tag.Tag{tag.PixelSpacing, tag.ImagerPixelSpacing} {
		elem, err := ds.FindElementByTag(t)
		if err != nil || elem == nil {
			continue
		}
		values, ok := elem.Value.GetValue().([]string)
		if !ok || len(values) < 2 {
			continue
		}
		row, err1 := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		col, err2 := strconv.ParseFloat(strings.TrimSpace(values[1]), 64)
		if err1 != nil || err2 != nil || row <= 0 || col <= 0 {
			continue
		}
		return Calibration{MMPerPixelX: col, MMPerPixelY: row, Source: "dicom"}
	}
	return Calibration{}
}
