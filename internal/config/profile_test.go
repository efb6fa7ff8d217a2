package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

func TestLoadProfile_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
modes: [pd, bop]
missing: [18, 38]
segments:
  - id: q1b
    direction: LR
  - id: q1l
    direction: rl
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	s, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if s.Modes != (sequence.Modes{PD: true, BOP: true}) {
		t.Errorf("unexpected modes %v", s.Modes)
	}
	if !s.Missing.Has(18) || !s.Missing.Has(38) || len(s.Missing) != 2 {
		t.Errorf("unexpected missing set %v", s.Missing.Sorted())
	}
	want := []sequence.Segment{
		{ID: "q1b", Direction: dental.LR},
		{ID: "q1l", Direction: dental.RL},
	}
	if diff := cmp.Diff(want, s.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadProfile_DefaultSegments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte("modes: [all]\n"), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	s, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if s.Modes != sequence.AllModes() {
		t.Errorf("Expected all modes, got %v", s.Modes)
	}
	if diff := cmp.Diff(sequence.DefaultSegments(), s.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileToSettings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		profile ProfileYAML
	}{
		{"unknown mode", ProfileYAML{Modes: []string{"cal"}}},
		{"invalid tooth", ProfileYAML{Missing: []int{19}}},
		{"bad direction", ProfileYAML{Segments: []SegmentYAML{{ID: "q1b", Direction: "up"}}}},
		{"unknown segment", ProfileYAML{Segments: []SegmentYAML{{ID: "q5b", Direction: "LR"}}}},
		{"duplicate segment", ProfileYAML{Segments: []SegmentYAML{
			{ID: "q1b", Direction: "LR"},
			{ID: "q1b", Direction: "RL"},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ProfileToSettings(tt.profile); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadProfile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(path, []byte("modes: [pd\n  missing: {"), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestSaveProfile_AndLoadBack(t *testing.T) {
	original := charting.DefaultSettings()
	original.Modes = sequence.Modes{PD: true, RE: true}
	original.Missing = sequence.NewMissingSet(11, 48)
	original.Segments = []sequence.Segment{
		{ID: "q4b", Direction: dental.RL},
		{ID: "q3b", Direction: dental.RL},
	}

	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := SaveProfile(original, path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if loaded.Modes != original.Modes {
		t.Errorf("modes: expected %v, got %v", original.Modes, loaded.Modes)
	}
	if diff := cmp.Diff(original.Missing.Sorted(), loaded.Missing.Sorted()); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(original.Segments, loaded.Segments); diff != "" {
		t.Errorf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveProfile_InvalidPath(t *testing.T) {
	err := SaveProfile(charting.DefaultSettings(), "/nonexistent/deeply/nested/path/profile.yaml")
	if err == nil {
		t.Error("Expected error for invalid path, got nil")
	}
}
