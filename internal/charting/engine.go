// Package charting ties the sequence builder, the cursor and the input
// interpreters to one chart.
//
// An Engine is owned by a single goroutine. Every settings change rebuilds
// the sequence and the cursor follows its step when it still exists.
package charting

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/cursor"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/keypad"
	"github.com/perioflow/perioflow/internal/sequence"
	"github.com/perioflow/perioflow/internal/voice"
)

var (
	// ErrNoModes is returned when charting is asked for with every mode off.
	ErrNoModes = errors.New("no charting modes enabled")
	// ErrNoMatchingStep is returned when a selection has no step.
	ErrNoMatchingStep = errors.New("no charting step for this selection")
	// ErrEmptySequence is returned by Start when every tooth is excluded.
	ErrEmptySequence = errors.New("charting sequence is empty")
)

// Settings are the inputs of the sequence builder.
type Settings struct {
	Missing  sequence.MissingSet `json:"missing" yaml:"missing"`
	Modes    sequence.Modes      `json:"modes" yaml:"modes"`
	Segments []sequence.Segment  `json:"segments" yaml:"segments"`
}

// DefaultSettings charts every mode over the default segment order.
func DefaultSettings() Settings {
	return Settings{
		Missing:  sequence.NewMissingSet(),
		Modes:    sequence.AllModes(),
		Segments: sequence.DefaultSegments(),
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	return Settings{
		Missing:  s.Missing.Clone(),
		Modes:    s.Modes,
		Segments: append([]sequence.Segment(nil), s.Segments...),
	}
}

// Engine drives charting of one chart.
type Engine struct {
	settings Settings
	chart    *chart.Chart
	cursor   *cursor.Cursor
	keypad   *keypad.Interpreter
	log      *zap.Logger
}

// New creates an engine for ch. The chart's missing teeth are replaced by
// the ones in s. The cursor starts inactive.
func New(ch *chart.Chart, s Settings, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	s = s.Clone()
	if s.Missing == nil {
		s.Missing = sequence.NewMissingSet()
	}
	if s.Segments == nil {
		s.Segments = sequence.DefaultSegments()
	}
	ch.SetMissing(s.Missing)

	e := &Engine{
		settings: s,
		chart:    ch,
		cursor:   cursor.New(sequence.Build(s.Missing, s.Modes, s.Segments)),
		log:      log,
	}
	e.keypad = keypad.New(e.cursor, ch)
	return e
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	return e.settings.Clone()
}

// Chart returns the chart being filled.
func (e *Engine) Chart() *chart.Chart {
	return e.chart
}

// Keypad returns the keypad interpreter bound to this engine.
func (e *Engine) Keypad() *keypad.Interpreter {
	return e.keypad
}

// Sequence returns the current charting sequence.
func (e *Engine) Sequence() []sequence.Step {
	return e.cursor.Sequence()
}

// Active returns the step under the cursor.
func (e *Engine) Active() (sequence.Step, bool) {
	return e.cursor.Active()
}

// Index returns the cursor index; it equals the sequence length while
// charting is inactive.
func (e *Engine) Index() int {
	return e.cursor.Index()
}

func (e *Engine) rebuild() {
	before, wasActive := e.cursor.Active()
	e.cursor.SetSequence(sequence.Build(e.settings.Missing, e.settings.Modes, e.settings.Segments))
	e.keypad.Clear()

	after, active := e.cursor.Active()
	e.log.Debug("sequence rebuilt",
		zap.Int("steps", e.cursor.Len()),
		zap.Stringer("modes", e.settings.Modes),
		zap.Int("missing", len(e.settings.Missing)),
		zap.Bool("active", active))
	if wasActive && !active {
		e.log.Debug("active step dropped by rebuild", zap.Stringer("step", before))
	} else if active {
		e.log.Debug("cursor relocated", zap.Stringer("step", after), zap.Int("index", e.cursor.Index()))
	}
}

// SetModes enables measurement types and rebuilds.
func (e *Engine) SetModes(m sequence.Modes) {
	e.settings.Modes = m
	e.rebuild()
}

// SetMode turns one measurement type on or off.
func (e *Engine) SetMode(t dental.MeasurementType, on bool) {
	e.SetModes(e.settings.Modes.With(t, on))
}

// SetSegments replaces the segment order. Invalid lists are refused and the
// current order is kept.
func (e *Engine) SetSegments(segments []sequence.Segment) error {
	if err := sequence.ValidateSegments(segments); err != nil {
		return err
	}
	e.settings.Segments = append([]sequence.Segment(nil), segments...)
	e.rebuild()
	return nil
}

// SetMissing replaces the set of missing teeth.
func (e *Engine) SetMissing(m sequence.MissingSet) {
	e.settings.Missing = m.Clone()
	e.chart.SetMissing(e.settings.Missing)
	e.rebuild()
}

// ToggleMissing flips one tooth and reports whether it is now missing.
func (e *Engine) ToggleMissing(tooth dental.ToothID) bool {
	m := e.settings.Missing.Clone()
	if m.Has(tooth) {
		delete(m, tooth)
	} else {
		m[tooth] = true
	}
	e.SetMissing(m)
	return m.Has(tooth)
}

// Start begins charting at the first step.
func (e *Engine) Start() error {
	if !e.settings.Modes.Any() {
		return ErrNoModes
	}
	if !e.cursor.Start() {
		return errors.WithHint(ErrEmptySequence, "every tooth of the selected segments is marked missing")
	}
	e.keypad.Clear()
	e.log.Debug("charting started", zap.Int("steps", e.cursor.Len()))
	return nil
}

// Reset stops charting. Recorded values are kept.
func (e *Engine) Reset() {
	e.cursor.Reset()
	e.keypad.Clear()
}

// Select moves the cursor to the first step of a tooth surface, narrowed to
// a site when one is given. Nothing moves when the selection has no step.
func (e *Engine) Select(tooth dental.ToothID, surface dental.Surface, site ...dental.Site) error {
	if !e.settings.Modes.Any() {
		return ErrNoModes
	}
	if !e.cursor.SetPosition(tooth, surface, site...) {
		return errors.Wrapf(ErrNoMatchingStep, "%d %s", tooth, surface)
	}
	e.keypad.Clear()
	return nil
}

// Undo moves back one step.
func (e *Engine) Undo() {
	e.cursor.Undo()
	e.keypad.Clear()
}

// Redo moves forward one step.
func (e *Engine) Redo() {
	e.cursor.Redo()
	e.keypad.Clear()
}

// VoiceTarget returns the surface a spoken reading fills: the surface of
// the active PD or RE step, or of the next one when the cursor sits on a
// bleeding or MGJ step.
func (e *Engine) VoiceTarget() (voice.Target, bool) {
	if !e.settings.Modes.PD && !e.settings.Modes.RE {
		return voice.Target{}, false
	}
	seq := e.cursor.Sequence()
	if e.cursor.State() != cursor.Active {
		return voice.Target{}, false
	}
	for i := e.cursor.Index(); i < len(seq); i++ {
		s := seq[i]
		if s.Type != dental.PD && s.Type != dental.RE {
			continue
		}
		return voice.Target{
			Tooth:   s.Tooth,
			Surface: s.Surface,
			Sites:   sequence.SurfaceSites(seq, s.Tooth, s.Surface),
			PD:      e.settings.Modes.PD,
			RE:      e.settings.Modes.RE,
		}, true
	}
	return voice.Target{}, false
}

// CommitVoice writes a confirmed reading and moves the cursor past the PD
// and RE steps of that surface.
func (e *Engine) CommitVoice(in voice.Interpretation) error {
	t := in.Target
	for i, site := range t.Sites {
		if i < len(in.PD) {
			step := sequence.Step{Tooth: t.Tooth, Surface: t.Surface, Site: site, Type: dental.PD}
			if err := e.chart.Record(step, in.PD[i]); err != nil {
				return err
			}
		}
		if i < len(in.RE) {
			step := sequence.Step{Tooth: t.Tooth, Surface: t.Surface, Site: site, Type: dental.RE}
			if err := e.chart.Record(step, in.RE[i]); err != nil {
				return err
			}
		}
	}

	last := -1
	for i, s := range e.cursor.Sequence() {
		if s.Tooth == t.Tooth && s.Surface == t.Surface && (s.Type == dental.PD || s.Type == dental.RE) {
			last = i
		}
	}
	if last >= 0 {
		e.cursor.Seek(last + 1)
	}
	e.keypad.Clear()
	e.log.Debug("voice reading applied",
		zap.Int("tooth", int(t.Tooth)),
		zap.String("surface", string(t.Surface)),
		zap.Int("index", e.cursor.Index()))
	return nil
}
