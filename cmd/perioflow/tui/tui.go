// Package tui is the interactive charting interface: a setup form, the
// keypad charting screen and a summary with save.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/screens"
	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/charting"
)

// Phase represents the current screen.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseCharting
	PhaseSummary
	PhaseError
)

// SaveFunc stores the chart and the settings it was charted with.
type SaveFunc func(c *chart.Chart, s charting.Settings) error

// Options configure a session.
type Options struct {
	// Chart continues an existing chart. A new one is created when nil.
	Chart    *chart.Chart
	Settings charting.Settings
	// SkipSetup goes straight to charting with Settings.
	SkipSetup bool
	Save      SaveFunc
	Log       *zap.Logger
}

// Model is the orchestrator for the charting interface.
type Model struct {
	opts  Options
	phase Phase

	engine *charting.Engine

	setupScreen    *screens.SetupScreen
	chartingScreen *screens.ChartingScreen
	summaryScreen  *screens.SummaryScreen
	errorScreen    *screens.ErrorScreen

	width  int
	height int

	cancelled bool
	saved     bool
	err       error
}

// New creates the model.
func New(opts Options) *Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	m := &Model{opts: opts}

	if opts.SkipSetup {
		m.startCharting(opts.Settings, m.patient())
		return m
	}
	m.phase = PhaseSetup
	m.setupScreen = screens.NewSetupScreen(m.patient(), opts.Settings, opts.Chart == nil)
	return m
}

func (m *Model) patient() string {
	if m.opts.Chart != nil {
		return m.opts.Chart.Patient
	}
	return ""
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	switch m.phase {
	case PhaseSetup:
		return m.setupScreen.Init()
	case PhaseCharting:
		return m.chartingScreen.Init()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.phase {
	case PhaseSetup:
		return m.updateSetup(msg)
	case PhaseCharting:
		return m.updateCharting(msg)
	case PhaseSummary:
		return m.updateSummary(msg)
	case PhaseError:
		return m.updateError(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.phase {
	case PhaseSetup:
		return m.setupScreen.View()
	case PhaseCharting:
		return m.chartingScreen.View()
	case PhaseSummary:
		return m.summaryScreen.View()
	case PhaseError:
		return m.errorScreen.View()
	}
	return ""
}

func (m *Model) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.setupScreen.Update(msg)

	if m.setupScreen.Cancelled() {
		m.cancelled = true
		return m, tea.Quit
	}
	if m.setupScreen.Done() {
		s, err := m.setupScreen.Settings()
		if err != nil {
			return m.transitionToError(err)
		}
		m.startCharting(s, m.setupScreen.Patient())
		return m, m.chartingScreen.Init()
	}
	return m, cmd
}

func (m *Model) startCharting(s charting.Settings, patient string) {
	c := m.opts.Chart
	if c == nil {
		c = chart.New(patient)
	}
	m.engine = charting.New(c, s, m.opts.Log)
	m.chartingScreen = screens.NewChartingScreen(m.engine)
	m.phase = PhaseCharting
	m.opts.Log.Debug("charting session opened",
		zap.String("chart", c.ID),
		zap.Int("steps", len(m.engine.Sequence())))
}

func (m *Model) updateCharting(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.chartingScreen.Update(msg)

	if m.chartingScreen.Cancelled() {
		m.cancelled = true
		return m, tea.Quit
	}
	if m.chartingScreen.Finished() {
		m.summaryScreen = screens.NewSummaryScreen(m.engine.Chart())
		m.phase = PhaseSummary
		return m, m.summaryScreen.Init()
	}
	return m, cmd
}

func (m *Model) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.summaryScreen.Update(msg)

	if m.summaryScreen.Cancelled() {
		m.cancelled = true
		return m, tea.Quit
	}
	if !m.summaryScreen.Done() {
		return m, cmd
	}

	return m.applySummaryAction(m.summaryScreen.Action())
}

func (m *Model) applySummaryAction(action screens.SummaryAction) (tea.Model, tea.Cmd) {
	switch action {
	case screens.SummaryActionBack:
		m.chartingScreen.Resume()
		m.phase = PhaseCharting
		return m, nil
	case screens.SummaryActionDiscard:
		m.cancelled = true
		return m, tea.Quit
	}

	if m.opts.Save != nil {
		if err := m.opts.Save(m.engine.Chart(), m.engine.Settings()); err != nil {
			return m.transitionToError(errors.Wrap(err, "saving chart"))
		}
	}
	m.saved = true
	return m, tea.Quit
}

func (m *Model) transitionToError(err error) (tea.Model, tea.Cmd) {
	m.err = err
	m.errorScreen = screens.NewErrorScreen(err)
	m.phase = PhaseError
	return m, nil
}

func (m *Model) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.errorScreen.Update(msg)
	return m, cmd
}

// Phase returns the current screen.
func (m *Model) Phase() Phase { return m.phase }

// Engine returns the charting engine once charting has started.
func (m *Model) Engine() *charting.Engine { return m.engine }

// Result reports how the session ended.
func (m *Model) Result() (saved, cancelled bool, err error) {
	return m.saved, m.cancelled, m.err
}

// Run opens the interface on the terminal and blocks until it exits.
func Run(opts Options) (*Model, error) {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		return nil, errors.Wrap(err, "running charting interface")
	}
	fm, ok := final.(*Model)
	if !ok {
		return m, nil
	}
	return fm, fm.err
}

// setupModel runs the setup form alone, for editing stored settings.
type setupModel struct {
	screen *screens.SetupScreen
}

func (s *setupModel) Init() tea.Cmd { return s.screen.Init() }

func (s *setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := s.screen.Update(msg)
	if s.screen.Cancelled() || s.screen.Done() {
		return s, tea.Quit
	}
	return s, cmd
}

func (s *setupModel) View() string { return s.screen.View() }

// EditSettings shows the settings form prefilled with current. ok is false
// when the user cancelled.
func EditSettings(current charting.Settings) (s charting.Settings, ok bool, err error) {
	m := &setupModel{screen: screens.NewSetupScreen("", current, false)}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return current, false, errors.Wrap(err, "running settings form")
	}
	if !m.screen.Done() {
		return current, false, nil
	}
	s, err = m.screen.Settings()
	if err != nil {
		return current, false, err
	}
	return s, true, nil
}
