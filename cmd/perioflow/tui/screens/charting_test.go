package screens

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/keypad"
	"github.com/perioflow/perioflow/internal/sequence"
)

func press(s *ChartingScreen, input ...string) {
	for _, k := range input {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "f3":
			msg = tea.KeyMsg{Type: tea.KeyF3}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		s.Update(msg)
	}
}

func newScreen(t *testing.T, modes sequence.Modes) (*ChartingScreen, *charting.Engine) {
	t.Helper()
	settings := charting.DefaultSettings()
	settings.Modes = modes
	e := charting.New(chart.New("test"), settings, nil)
	s := NewChartingScreen(e)
	s.Init()
	return s, e
}

func TestChartingScreen_KeypadAndUndo(t *testing.T) {
	s, e := newScreen(t, sequence.AllModes())

	press(s, "1", "2")
	if got := e.Chart().Tooth(18).PD[dental.SiteDB]; got != 12 {
		t.Errorf("Expected PD 12, got %d", got)
	}
	if !strings.Contains(s.View(), "18 buccal b pd") {
		t.Error("view should show the active step")
	}

	press(s, "left")
	if step, _ := e.Active(); step.Site != dental.SiteDB {
		t.Errorf("Expected undo back to db, got %s", step)
	}
}

func TestChartingScreen_FlaggedValue(t *testing.T) {
	s, _ := newScreen(t, sequence.Modes{RE: true})

	press(s, "-", "1", "2")
	if !s.warning || !strings.Contains(s.status, "outside expected range") {
		t.Errorf("Expected a range warning, got %q", s.status)
	}
}

func TestChartingScreen_BleedingButtons(t *testing.T) {
	s, e := newScreen(t, sequence.Modes{BOP: true})

	press(s, "1", "3")
	if !strings.Contains(s.View(), "[1:db]") || !strings.Contains(s.View(), "[3:mb]") {
		t.Errorf("selected buttons should be marked:\n%s", s.View())
	}
	press(s, "enter")
	b := e.Chart().Tooth(18).Bleeding
	if !b[dental.SiteDB] || b[dental.SiteB] || !b[dental.SiteMB] {
		t.Errorf("unexpected bleeding %v", b)
	}
}

func TestChartingScreen_Goto(t *testing.T) {
	s, e := newScreen(t, sequence.AllModes())

	press(s, "g", "2", "4", " ", "l", "enter")
	step, ok := e.Active()
	if !ok || step.Tooth != 24 || step.Surface != dental.Lingual {
		t.Errorf("Expected 24 lingual, got %s (active=%v)", step, ok)
	}

	press(s, "g", "1", "9", " ", "b", "enter")
	if !s.warning {
		t.Error("invalid tooth should warn")
	}
	if step2, _ := e.Active(); !step2.Equal(step) {
		t.Error("failed goto must not move the cursor")
	}
}

func TestChartingScreen_ToggleMissingAndMode(t *testing.T) {
	s, e := newScreen(t, sequence.AllModes())

	press(s, "x")
	if !e.Settings().Missing.Has(18) {
		t.Fatal("x should mark the active tooth missing")
	}
	if n := len(e.Sequence()); n != 465 {
		t.Errorf("Expected 465 steps, got %d", n)
	}

	press(s, "f3")
	if e.Settings().Modes.BOP {
		t.Error("F3 should turn bleeding off")
	}
	if n := len(e.Sequence()); n != 31*13 {
		t.Errorf("Expected %d steps, got %d", 31*13, n)
	}
}

func TestChartingScreen_Finish(t *testing.T) {
	s, _ := newScreen(t, sequence.AllModes())
	press(s, "q")
	if !s.Finished() {
		t.Error("q should finish")
	}
	s.Resume()
	if s.Finished() {
		t.Error("Resume should clear finished")
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		input   string
		tooth   dental.ToothID
		surface dental.Surface
		site    dental.Site
		wantErr bool
	}{
		{input: "16 b", tooth: 16, surface: dental.Buccal},
		{input: "24 lingual ml", tooth: 24, surface: dental.Lingual, site: dental.SiteML},
		{input: "31 p", tooth: 31, surface: dental.Lingual},
		{input: "16", wantErr: true},
		{input: "19 b", wantErr: true},
		{input: "16 x", wantErr: true},
		{input: "16 b ml", wantErr: true},
		{input: "16 b mb extra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tooth, surface, site, err := ParseSelection(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSelection(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tooth != tt.tooth || surface != tt.surface || site != tt.site {
				t.Errorf("Expected %d %s %q, got %d %s %q", tt.tooth, tt.surface, tt.site, tooth, surface, site)
			}
		})
	}
}

func TestSummaryText(t *testing.T) {
	c := chart.New("Jane Doe")
	text := SummaryText(c)
	for _, want := range []string{"Jane Doe", "Teeth present", "32", "Mean PD"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary should contain %q:\n%s", want, text)
		}
	}
}

func TestChartingScreen_PlaqueMode(t *testing.T) {
	s, e := newScreen(t, sequence.Modes{PD: true})

	press(s, "p", "1", "3")
	if !strings.Contains(s.View(), "plaque") || !strings.Contains(s.View(), "[1:db]") {
		t.Errorf("plaque buttons should be shown:\n%s", s.View())
	}
	press(s, "enter")
	p := e.Chart().Tooth(18).Plaque
	if !p[dental.SiteDB] || p[dental.SiteB] || !p[dental.SiteMB] {
		t.Errorf("unexpected plaque %v", p)
	}
	if e.Index() != 0 {
		t.Errorf("plaque entry must not move the cursor, got %d", e.Index())
	}
	if sum := e.Chart().Summary(); sum.PlaqueSites != 2 {
		t.Errorf("Expected 2 plaque sites in the summary, got %d", sum.PlaqueSites)
	}

	press(s, "3")
	if got := e.Chart().Tooth(18).PD[dental.SiteDB]; got != 3 {
		t.Errorf("Expected the keypad back on PD, got %d", got)
	}
}

func TestChartingScreen_SuppurationAndMobility(t *testing.T) {
	s, e := newScreen(t, sequence.Modes{PD: true})

	press(s, "u", "2", "enter")
	if !e.Chart().Tooth(18).Suppuration[dental.SiteB] {
		t.Error("Expected suppuration at b")
	}

	press(s, "m", "2")
	if m := e.Chart().Tooth(18).Mobility; m == nil || *m != 2 {
		t.Errorf("Expected mobility 2, got %v", m)
	}

	press(s, "p", "p")
	if e.Keypad().Mark() != keypad.NoMark {
		t.Error("pressing p twice should leave plaque mode")
	}
}
