package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/components"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// SetupScreen edits the patient name and the charting settings.
type SetupScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	width     int
	height    int
	done      bool
	cancelled bool

	// String versions for form binding (huh binds to strings)
	patient     string
	modes       []string
	missingStr  string
	segmentsStr string
}

// NewSetupScreen creates the form prefilled with s. Pass askPatient=false
// when only the settings are edited.
func NewSetupScreen(patient string, s charting.Settings, askPatient bool) *SetupScreen {
	scr := &SetupScreen{
		helpPanel:   components.NewHelpPanel(),
		patient:     patient,
		missingStr:  sequence.FormatMissing(s.Missing),
		segmentsStr: sequence.FormatSegments(s.Segments),
	}
	for _, t := range dental.AllMeasurementTypes() {
		if s.Modes.Enabled(t) {
			scr.modes = append(scr.modes, string(t))
		}
	}

	var fields []huh.Field
	if askPatient {
		fields = append(fields, huh.NewInput().
			Key("patient").
			Title("Patient").
			Value(&scr.patient))
	}
	fields = append(fields,
		huh.NewMultiSelect[string]().
			Key("modes").
			Title("Charting Modes").
			Options(
				huh.NewOption("PD - Probing depth", string(dental.PD)),
				huh.NewOption("RE - Recession", string(dental.RE)),
				huh.NewOption("BOP - Bleeding on probing", string(dental.BOP)),
				huh.NewOption("MGJ - Mucogingival junction", string(dental.MGJ)),
			).
			Value(&scr.modes),

		huh.NewInput().
			Key("missing").
			Title("Missing Teeth").
			Placeholder("e.g., 18, 28, 38, 48").
			Value(&scr.missingStr).
			Validate(validateMissing),

		huh.NewInput().
			Key("segments").
			Title("Segment Order").
			Value(&scr.segmentsStr).
			Validate(validateSegments),
	)

	scr.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false).WithShowErrors(true)
	return scr
}

func validateMissing(s string) error {
	_, err := sequence.ParseMissing(s)
	return err
}

func validateSegments(s string) error {
	_, err := sequence.ParseSegments(s)
	return err
}

// Init implements tea.Model
func (s *SetupScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SetupScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetSize(msg.Width/2, msg.Height/2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SetupScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	title := components.TitleStyle.Render("PERIOFLOW - Chart Setup")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		"Tab: Next field | Space: Toggle | Enter: Submit | Esc: Cancel",
	)
}

// Done returns true if the form was completed
func (s *SetupScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *SetupScreen) Cancelled() bool { return s.cancelled }

// Patient returns the entered patient name.
func (s *SetupScreen) Patient() string { return s.patient }

// Settings parses the form values. Fields were validated on entry.
func (s *SetupScreen) Settings() (charting.Settings, error) {
	var out charting.Settings
	for _, m := range s.modes {
		t, err := dental.ParseMeasurementType(m)
		if err != nil {
			return out, err
		}
		out.Modes = out.Modes.With(t, true)
	}
	missing, err := sequence.ParseMissing(s.missingStr)
	if err != nil {
		return out, err
	}
	segments, err := sequence.ParseSegments(s.segmentsStr)
	if err != nil {
		return out, err
	}
	out.Missing = missing
	out.Segments = segments
	return out, nil
}
