package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// ProfileYAML is a charting profile as written to disk.
type ProfileYAML struct {
	Modes    []string      `yaml:"modes"`
	Missing  []int         `yaml:"missing,omitempty"`
	Segments []SegmentYAML `yaml:"segments,omitempty"`
}

// SegmentYAML holds one entry of the traversal order.
type SegmentYAML struct {
	ID        string `yaml:"id"`
	Direction string `yaml:"direction"`
}

// LoadProfile reads a charting profile from a YAML file.
func LoadProfile(path string) (charting.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return charting.Settings{}, errors.Wrap(err, "reading profile")
	}

	var p ProfileYAML
	if err := yaml.Unmarshal(data, &p); err != nil {
		return charting.Settings{}, errors.Wrap(err, "parsing profile")
	}

	s, err := ProfileToSettings(p)
	if err != nil {
		return charting.Settings{}, errors.Wrapf(err, "profile %s", path)
	}
	return s, nil
}

// SaveProfile writes s to a YAML file.
func SaveProfile(s charting.Settings, path string) error {
	data, err := yaml.Marshal(SettingsToProfile(s))
	if err != nil {
		return errors.Wrap(err, "marshaling profile")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing profile")
	}
	return nil
}

// ProfileToSettings validates a profile. Missing segments fall back to the
// default order; an empty mode list charts nothing.
func ProfileToSettings(p ProfileYAML) (charting.Settings, error) {
	s := charting.Settings{
		Missing:  sequence.NewMissingSet(),
		Segments: sequence.DefaultSegments(),
	}

	for _, name := range p.Modes {
		if name == "all" {
			s.Modes = sequence.AllModes()
			continue
		}
		t, err := dental.ParseMeasurementType(name)
		if err != nil {
			return charting.Settings{}, err
		}
		s.Modes = s.Modes.With(t, true)
	}

	for _, n := range p.Missing {
		t := dental.ToothID(n)
		if !t.Valid() {
			return charting.Settings{}, errors.Newf("missing tooth %d is not an FDI permanent tooth", n)
		}
		s.Missing[t] = true
	}

	if len(p.Segments) > 0 {
		segs := make([]sequence.Segment, 0, len(p.Segments))
		for _, seg := range p.Segments {
			d, err := dental.ParseDirection(seg.Direction)
			if err != nil {
				return charting.Settings{}, errors.Wrapf(err, "segment %s", seg.ID)
			}
			segs = append(segs, sequence.Segment{ID: sequence.SegmentID(seg.ID), Direction: d})
		}
		if err := sequence.ValidateSegments(segs); err != nil {
			return charting.Settings{}, err
		}
		s.Segments = segs
	}
	return s, nil
}

// SettingsToProfile converts engine settings to their YAML form.
func SettingsToProfile(s charting.Settings) ProfileYAML {
	p := ProfileYAML{Modes: []string{}}
	for _, t := range dental.AllMeasurementTypes() {
		if s.Modes.Enabled(t) {
			p.Modes = append(p.Modes, string(t))
		}
	}
	for _, t := range s.Missing.Sorted() {
		p.Missing = append(p.Missing, int(t))
	}
	for _, seg := range s.Segments {
		p.Segments = append(p.Segments, SegmentYAML{ID: string(seg.ID), Direction: string(seg.Direction)})
	}
	return p
}
