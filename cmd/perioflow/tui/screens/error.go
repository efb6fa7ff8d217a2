package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/components"
)

var (
	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	errorMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

// ErrorScreen shows a fatal error until a key is pressed.
type ErrorScreen struct {
	err  error
	done bool
}

// NewErrorScreen creates a new error screen
func NewErrorScreen(err error) *ErrorScreen {
	return &ErrorScreen{err: err}
}

// Init implements tea.Model
func (s *ErrorScreen) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s *ErrorScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc", "enter", "q":
			s.done = true
			return s, tea.Quit
		}
	}
	return s, nil
}

// View implements tea.Model
func (s *ErrorScreen) View() string {
	var sb strings.Builder
	sb.WriteString(errorTitleStyle.Render("✗ Saving failed"))
	sb.WriteString("\n\n")
	sb.WriteString("  ")
	sb.WriteString(errorMessageStyle.Render(s.err.Error()))
	sb.WriteString("\n")
	for _, h := range errors.GetAllHints(s.err) {
		sb.WriteString("  ")
		sb.WriteString(components.HintStyle.Render("hint: " + h))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(components.HintStyle.Render("Press Enter or q to exit"))
	return sb.String()
}

// Done returns true if the user is finished
func (s *ErrorScreen) Done() bool {
	return s.done
}

// Error returns the error
func (s *ErrorScreen) Error() error {
	return s.err
}
