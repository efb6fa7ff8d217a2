package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/radiograph"
)

// parsePoint reads "x,y" in image pixels.
func parsePoint(s string) (radiograph.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return radiograph.Point{}, errors.Newf("expected x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return radiograph.Point{}, errors.Wrapf(err, "point %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return radiograph.Point{}, errors.Wrapf(err, "point %q", s)
	}
	return radiograph.Point{X: x, Y: y}, nil
}

// parseReference reads "x1,y1,x2,y2,mm": two pixel positions and the known
// length between them.
func parseReference(s string) (radiograph.Calibration, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return radiograph.Calibration{}, errors.WithHint(
			errors.Newf("expected x1,y1,x2,y2,mm, got %q", s),
			"measure a ruler or an implant of known length on the image")
	}
	a, err := parsePoint(parts[0] + "," + parts[1])
	if err != nil {
		return radiograph.Calibration{}, err
	}
	b, err := parsePoint(parts[2] + "," + parts[3])
	if err != nil {
		return radiograph.Calibration{}, err
	}
	mm, err := strconv.ParseFloat(strings.TrimSpace(parts[4]), 64)
	if err != nil {
		return radiograph.Calibration{}, errors.Wrapf(err, "reference length %q", parts[4])
	}
	return radiograph.CalibrationFromReference(a, b, mm)
}

// writeImage encodes img by the extension of path.
func writeImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create overlay")
	}

	var encode func(io.Writer, image.Image) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		encode = func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }
	case ".bmp":
		encode = bmp.Encode
	default:
		encode = png.Encode
	}
	if err := encode(f, img); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "encode overlay")
	}
	return errors.Wrap(f.Close(), "close overlay")
}

type boneLossFlags struct {
	tooth    int
	cej      string
	crest    string
	apex     string
	ref      string
	age      int
	overlay  string
	maxWidth int
}

func newBoneLossCmd() *cobra.Command {
	var fl boneLossFlags
	cmd := &cobra.Command{
		Use:   "boneloss <radiograph>",
		Short: "Measure radiographic bone loss on one root",
		Long: `Measure bone loss from three landmarks placed on a radiograph: the
cemento-enamel junction, the alveolar crest and the root apex.

DICOM files are calibrated from their pixel spacing. Other images (TIFF,
BMP, PNG, JPEG) report percentages only unless --ref gives a reference
length.`,
		Example: `  perioflow boneloss pa16.dcm --tooth 16 --cej 210,140 --crest 214,188 --apex 230,420 --age 45
  perioflow boneloss bw.png --tooth 36 --cej 80,60 --crest 84,95 --apex 90,260 \
      --ref 10,10,10,110,10 --overlay out.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoneLoss(cmd, args[0], fl)
		},
	}
	f := cmd.Flags()
	f.IntVar(&fl.tooth, "tooth", 0, "FDI tooth number")
	f.StringVar(&fl.cej, "cej", "", "cemento-enamel junction as x,y")
	f.StringVar(&fl.crest, "crest", "", "alveolar crest as x,y")
	f.StringVar(&fl.apex, "apex", "", "root apex as x,y")
	f.StringVar(&fl.ref, "ref", "", "reference length as x1,y1,x2,y2,mm")
	f.IntVar(&fl.age, "age", 0, "patient age, to grade progression")
	f.StringVar(&fl.overlay, "overlay", "", "write the annotated image here (.png, .tif, .bmp)")
	f.IntVar(&fl.maxWidth, "max-width", 1200, "scale the overlay down to this width")
	for _, name := range []string{"tooth", "cej", "crest", "apex"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func runBoneLoss(cmd *cobra.Command, path string, fl boneLossFlags) error {
	tooth := dental.ToothID(fl.tooth)
	if !tooth.Valid() {
		return errors.WithHint(errors.Newf("invalid tooth %d", fl.tooth), "use FDI numbering, 11-18, 21-28, 31-38 or 41-48")
	}
	ann := radiograph.Annotation{Tooth: tooth}
	var err error
	if ann.CEJ, err = parsePoint(fl.cej); err != nil {
		return err
	}
	if ann.Crest, err = parsePoint(fl.crest); err != nil {
		return err
	}
	if ann.Apex, err = parsePoint(fl.apex); err != nil {
		return err
	}

	rg, err := radiograph.Load(path)
	if err != nil {
		return err
	}
	cal := rg.Calibration
	if fl.ref != "" {
		if cal, err = parseReference(fl.ref); err != nil {
			return err
		}
	}

	m, err := radiograph.Measure(ann, cal)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tooth %d: bone loss %.0f%% of the root, stage %s\n", m.Tooth, m.Percent, m.Stage)
	if m.Calibrated {
		fmt.Fprintf(out, "  %.1f mm of %.1f mm (calibration: %s)\n", m.BoneLossMM, m.RootMM, cal.Source)
	} else {
		fmt.Fprintln(out, "  uncalibrated: pass --ref for millimetres")
	}
	if fl.age > 0 {
		g, err := m.Grade(fl.age)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  grade %s at age %d\n", g, fl.age)
	}

	if fl.overlay == "" {
		return nil
	}
	img, factor := radiograph.Fit(rg.Image, fl.maxWidth)
	scaled := radiograph.Annotation{
		Tooth: ann.Tooth,
		CEJ:   radiograph.ScalePoint(ann.CEJ, factor),
		Crest: radiograph.ScalePoint(ann.Crest, factor),
		Apex:  radiograph.ScalePoint(ann.Apex, factor),
	}
	if err := writeImage(fl.overlay, radiograph.Overlay(img, []radiograph.Annotation{scaled}, []radiograph.Measurement{m})); err != nil {
		return err
	}
	fmt.Fprintf(out, "overlay written to %s\n", fl.overlay)
	return nil
}
