package screens

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/components"
	"github.com/perioflow/perioflow/internal/chart"
)

// SummaryAction represents the action selected on the summary screen
type SummaryAction int

const (
	// SummaryActionBack returns to charting
	SummaryActionBack SummaryAction = iota
	// SummaryActionSave stores the chart and exits
	SummaryActionSave
	// SummaryActionDiscard exits without saving
	SummaryActionDiscard
)

const (
	actionBack    = "back"
	actionSave    = "save"
	actionDiscard = "discard"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(1, 2)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Width(22)

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
)

// SummaryScreen shows the chart indices before saving.
type SummaryScreen struct {
	form      *huh.Form
	chart     *chart.Chart
	action    string
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewSummaryScreen creates a new summary screen
func NewSummaryScreen(c *chart.Chart) *SummaryScreen {
	s := &SummaryScreen{
		chart:  c,
		action: actionSave,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(
					huh.NewOption("Save chart and exit", actionSave),
					huh.NewOption("Back to charting", actionBack),
					huh.NewOption("Exit without saving", actionDiscard),
				).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, nil
		case "esc":
			// Esc goes back instead of cancelling
			s.action = actionBack
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	title := components.TitleStyle.Render("PERIOFLOW - Summary")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		summaryPanelStyle.Render(SummaryText(s.chart)),
		"",
		s.form.View(),
	)
}

// SummaryText renders the chart indices as label/value lines.
func SummaryText(c *chart.Chart) string {
	sum := c.Summary()
	rows := [][2]string{
		{"Patient", c.Patient},
		{"Chart", c.ID},
		{"Teeth present", fmt.Sprintf("%d", sum.PresentTeeth)},
		{"Sites probed", fmt.Sprintf("%d", sum.SitesProbed)},
		{"Mean PD", fmt.Sprintf("%.1f mm", sum.MeanPD)},
		{"Mean CAL", fmt.Sprintf("%.1f mm", sum.MeanCAL)},
		{"Max CAL", fmt.Sprintf("%d mm", sum.MaxCAL)},
		{"Sites PD >= 4 mm", fmt.Sprintf("%d", sum.PD4Plus)},
		{"Sites PD >= 6 mm", fmt.Sprintf("%d", sum.PD6Plus)},
		{"Bleeding on probing", fmt.Sprintf("%.0f%% (%d sites)", sum.BOPPercent, sum.BleedingSites)},
		{"Plaque", fmt.Sprintf("%.0f%% (%d sites)", sum.PlaquePercent, sum.PlaqueSites)},
	}

	var sb strings.Builder
	for i, r := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(summaryLabelStyle.Render(r[0]))
		sb.WriteString(summaryValueStyle.Render(r[1]))
	}
	return sb.String()
}

// Done returns true when an action was chosen.
func (s *SummaryScreen) Done() bool {
	return s.done
}

// Cancelled returns true if the user pressed ctrl+c.
func (s *SummaryScreen) Cancelled() bool {
	return s.cancelled
}

// Action returns the chosen action.
func (s *SummaryScreen) Action() SummaryAction {
	switch s.action {
	case actionBack:
		return SummaryActionBack
	case actionDiscard:
		return SummaryActionDiscard
	default:
		return SummaryActionSave
	}
}
