package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/cmd/perioflow/tui/components"
	"github.com/perioflow/perioflow/internal/charting"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/keypad"
	"github.com/perioflow/perioflow/internal/sequence"
)

type chartingKeys struct {
	Start   key.Binding
	Undo    key.Binding
	Redo    key.Binding
	Goto    key.Binding
	Missing key.Binding
	Reset   key.Binding
	PD      key.Binding
	RE      key.Binding
	BOP     key.Binding
	MGJ     key.Binding
	Plaque  key.Binding
	Supp    key.Binding
	Mobile  key.Binding
	Finish  key.Binding
}

var chartingKeyMap = chartingKeys{
	Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Undo:    key.NewBinding(key.WithKeys("left", "up"), key.WithHelp("←", "back")),
	Redo:    key.NewBinding(key.WithKeys("right", "down"), key.WithHelp("→", "skip")),
	Goto:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to tooth")),
	Missing: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle missing")),
	Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "stop")),
	PD:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "pd")),
	RE:      key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "re")),
	BOP:     key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "bop")),
	MGJ:     key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "mgj")),
	Plaque:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plaque")),
	Supp:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "suppuration")),
	Mobile:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mobility")),
	Finish:  key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "finish")),
}

// ShortHelp implements help.KeyMap.
func (k chartingKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Goto, k.Missing, k.Finish}
}

// FullHelp implements help.KeyMap.
func (k chartingKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Reset, k.Undo, k.Redo},
		{k.Goto, k.Missing, k.Finish},
		{k.PD, k.RE, k.BOP, k.MGJ},
		{k.Plaque, k.Supp, k.Mobile},
	}
}

// ChartingScreen walks the charting sequence with the numeric keypad.
type ChartingScreen struct {
	engine    *charting.Engine
	helpPanel *components.HelpPanel
	help      help.Model
	gotoInput textinput.Model
	going     bool
	status    string
	warning   bool
	width     int
	height    int
	finished  bool
	cancelled bool
}

// NewChartingScreen binds the screen to an engine.
func NewChartingScreen(e *charting.Engine) *ChartingScreen {
	ti := textinput.New()
	ti.Placeholder = "16 b, 24 lingual ml"
	ti.CharLimit = 20
	ti.Width = 24

	return &ChartingScreen{
		engine:    e,
		helpPanel: components.NewHelpPanel(),
		help:      help.New(),
		gotoInput: ti,
	}
}

// Init starts charting at the first step.
func (s *ChartingScreen) Init() tea.Cmd {
	if _, active := s.engine.Active(); !active {
		s.setErr(s.engine.Start())
	}
	return nil
}

// Update implements tea.Model
func (s *ChartingScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.help.Width = msg.Width
		s.helpPanel.SetSize(msg.Width/2, msg.Height/3)
		return s, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			s.cancelled = true
			return s, nil
		}
		if s.going {
			return s.updateGoto(msg)
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *ChartingScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, chartingKeyMap.Finish):
		s.finished = true
	case key.Matches(msg, chartingKeyMap.Start):
		if s.setErr(s.engine.Start()) {
			s.setStatus("charting from the first step")
		}
	case key.Matches(msg, chartingKeyMap.Reset):
		s.engine.Reset()
		s.setStatus("charting stopped")
	case key.Matches(msg, chartingKeyMap.Undo):
		s.engine.Undo()
		s.status = ""
	case key.Matches(msg, chartingKeyMap.Redo):
		s.engine.Redo()
		s.status = ""
	case key.Matches(msg, chartingKeyMap.Goto):
		s.going = true
		s.gotoInput.SetValue("")
		return s.gotoInput.Focus()
	case key.Matches(msg, chartingKeyMap.Missing):
		step, ok := s.engine.Active()
		if !ok {
			s.setWarning("no active tooth")
			return nil
		}
		if s.engine.ToggleMissing(step.Tooth) {
			s.setStatus(fmt.Sprintf("tooth %d marked missing", step.Tooth))
		}
	case key.Matches(msg, chartingKeyMap.PD):
		s.toggleMode(dental.PD)
	case key.Matches(msg, chartingKeyMap.RE):
		s.toggleMode(dental.RE)
	case key.Matches(msg, chartingKeyMap.BOP):
		s.toggleMode(dental.BOP)
	case key.Matches(msg, chartingKeyMap.MGJ):
		s.toggleMode(dental.MGJ)
	case key.Matches(msg, chartingKeyMap.Plaque):
		s.toggleMark(keypad.Plaque)
	case key.Matches(msg, chartingKeyMap.Supp):
		s.toggleMark(keypad.Suppuration)
	case key.Matches(msg, chartingKeyMap.Mobile):
		s.toggleMark(keypad.Mobility)
	default:
		s.press(msg.String())
	}
	return nil
}

func (s *ChartingScreen) press(k string) {
	res, committed, err := s.engine.Keypad().Press(k)
	if err != nil {
		if errors.Is(err, keypad.ErrInactive) {
			s.setWarning("charting is stopped, press s to start")
			return
		}
		s.setWarning(err.Error())
		return
	}
	if !committed {
		return
	}
	switch {
	case res.Mark == keypad.Mobility:
		s.setStatus(fmt.Sprintf("%d mobility %d", res.Step.Tooth, res.Value))
	case res.Mark != keypad.NoMark:
		s.setStatus(fmt.Sprintf("%d %s %s: %d sites", res.Step.Tooth, res.Step.Surface, res.Mark, len(res.Marked)))
	case res.Flag != nil:
		s.setWarning(fmt.Sprintf("%s: %s", res.Step, res.Flag))
	case res.Step.Type == dental.BOP:
		s.setStatus(fmt.Sprintf("%s: %d bleeding", res.Step, len(res.Bleeding)))
	default:
		s.setStatus(fmt.Sprintf("%s = %d", res.Step, res.Value))
	}
	if res.Completed {
		s.setStatus("charting complete, press q for the summary")
	}
}

// toggleMark turns the keypad into a plaque, suppuration or mobility entry
// for the active tooth. Pressing the same key again leaves it.
func (s *ChartingScreen) toggleMark(m keypad.Mark) {
	kp := s.engine.Keypad()
	if _, ok := s.engine.Active(); !ok {
		s.setWarning("no active tooth")
		return
	}
	if kp.Mark() == m {
		kp.SetMark(keypad.NoMark)
		s.status = ""
		return
	}
	kp.SetMark(m)
	if m == keypad.Mobility {
		s.setStatus("mobility: press 0-3")
		return
	}
	s.setStatus(fmt.Sprintf("%s: 1-3 toggle sites, enter saves", m))
}

func (s *ChartingScreen) toggleMode(t dental.MeasurementType) {
	modes := s.engine.Settings().Modes
	on := !modes.Enabled(t)
	s.engine.SetMode(t, on)
	state := "off"
	if on {
		state = "on"
	}
	s.setStatus(fmt.Sprintf("%s %s, %d steps", t, state, len(s.engine.Sequence())))
}

func (s *ChartingScreen) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.going = false
		s.gotoInput.Blur()
		return s, nil
	case "enter":
		s.going = false
		s.gotoInput.Blur()
		s.jump(s.gotoInput.Value())
		return s, nil
	}
	var cmd tea.Cmd
	s.gotoInput, cmd = s.gotoInput.Update(msg)
	return s, cmd
}

// jump reads "<tooth> <surface> [site]".
func (s *ChartingScreen) jump(input string) {
	tooth, surface, site, err := ParseSelection(input)
	if err != nil {
		s.setWarning(err.Error())
		return
	}
	var sites []dental.Site
	if site != "" {
		sites = append(sites, site)
	}
	if s.setErr(s.engine.Select(tooth, surface, sites...)) {
		s.status = ""
	}
}

// ParseSelection reads a tooth, a surface and an optional site, e.g.
// "16 b" or "24 lingual ml".
func ParseSelection(input string) (dental.ToothID, dental.Surface, dental.Site, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 || len(fields) > 3 {
		return 0, "", "", errors.Newf("expected <tooth> <surface> [site], got %q", input)
	}
	tooth, err := dental.ParseTooth(fields[0])
	if err != nil {
		return 0, "", "", err
	}
	surface, err := dental.ParseSurface(fields[1])
	if err != nil {
		return 0, "", "", err
	}
	var site dental.Site
	if len(fields) == 3 {
		site = dental.Site(strings.ToLower(fields[2]))
		if sf, ok := dental.SurfaceOf(site); !ok || sf != surface {
			return 0, "", "", errors.Newf("site %q is not on the %s surface", fields[2], surface)
		}
	}
	return tooth, surface, site, nil
}

func (s *ChartingScreen) setStatus(msg string) {
	s.status = msg
	s.warning = false
}

func (s *ChartingScreen) setWarning(msg string) {
	s.status = msg
	s.warning = true
}

// setErr shows err as a warning and reports whether it was nil.
func (s *ChartingScreen) setErr(err error) bool {
	if err == nil {
		return true
	}
	msg := err.Error()
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		msg += " (" + strings.Join(hints, "; ") + ")"
	}
	s.setWarning(msg)
	return false
}

// View implements tea.Model
func (s *ChartingScreen) View() string {
	title := components.TitleStyle.Render("PERIOFLOW - Charting")

	step, active := s.engine.Active()
	var stepLine string
	grid := components.Grid{Chart: s.engine.Chart(), Missing: s.engine.Settings().Missing}
	if active {
		grid.Active = &step
		s.helpPanel.SetField(string(step.Type))
		stepLine = fmt.Sprintf("Step %d/%d  %s  %s",
			s.engine.Index()+1, len(s.engine.Sequence()),
			components.ActiveStyle.Render(step.String()),
			s.entryView(step))
	} else {
		s.helpPanel.SetField("")
		stepLine = components.HintStyle.Render(fmt.Sprintf("Inactive, %d steps (%s)",
			len(s.engine.Sequence()), s.engine.Settings().Modes))
	}

	status := s.status
	if s.warning {
		status = components.WarningStyle.Render(status)
	}

	parts := []string{title, stepLine, "", grid.View(), "", status}
	if s.going {
		parts = append(parts, "Go to: "+s.gotoInput.View())
	}
	if active {
		parts = append(parts, "", s.helpPanel.View())
	}
	parts = append(parts, "", s.help.View(chartingKeyMap))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// entryView shows the pending keypad entry or the site buttons.
func (s *ChartingScreen) entryView(step sequence.Step) string {
	kp := s.engine.Keypad()
	sites := step.Sites
	switch kp.Mark() {
	case keypad.Mobility:
		return "Mobility: _"
	case keypad.Plaque, keypad.Suppuration:
		b := keypad.MarkButtons(step)
		sites = b[:]
	default:
		if step.Type != dental.BOP {
			return "Entry: " + kp.Pending() + "_"
		}
	}
	sel := kp.Selection()
	buttons := make([]string, len(sites))
	for i, site := range sites {
		label := fmt.Sprintf("%d:%s", i+1, site)
		if i < len(sel) && sel[i] {
			label = components.BleedingStyle.Render("[" + label + "]")
		} else {
			label = " " + label + " "
		}
		buttons[i] = label
	}
	if m := kp.Mark(); m != keypad.NoMark {
		return m.String() + " " + strings.Join(buttons, " ")
	}
	return strings.Join(buttons, " ")
}

// Finished returns true when the user asked for the summary.
func (s *ChartingScreen) Finished() bool { return s.finished }

// Cancelled returns true if the user pressed ctrl+c.
func (s *ChartingScreen) Cancelled() bool { return s.cancelled }

// Resume clears the finished flag when returning from the summary.
func (s *ChartingScreen) Resume() { s.finished = false }
