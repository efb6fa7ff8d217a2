package voice

import (
	"context"
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Committer is the charting side of a voice session.
type Committer interface {
	// VoiceTarget returns the surface the next transcript fills.
	VoiceTarget() (Target, bool)
	// CommitVoice writes a confirmed interpretation to the chart.
	CommitVoice(in Interpretation) error
}

// State is the listening state of a session.
type State int

const (
	Idle State = iota
	Listening
	Stopped
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome reports what a final transcript did.
type Outcome int

const (
	Ignored Outcome = iota
	Proposed
	Committed
	Cancelled
	Incomplete
	NoTarget
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Proposed:
		return "proposed"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	case Incomplete:
		return "incomplete"
	case NoTarget:
		return "no target"
	default:
		return "ignored"
	}
}

// Snapshot is a copy of the session state for display.
type Snapshot struct {
	State      State
	Interim    string
	Transcript string
	Pending    *Interpretation
	Last       Outcome
	Err        error
}

// Session gates voice input behind confirmation. A final transcript with
// numbers replaces the pending interpretation; a confirm keyword commits it
// and a cancel keyword drops it.
type Session struct {
	rec       Recognizer
	committer Committer
	log       *zap.Logger

	mu         sync.Mutex
	state      State
	manualStop bool
	interim    string
	transcript string
	pending    *Interpretation
	last       Outcome
	err        error
	onUpdate   func(Snapshot)
}

// NewSession wires a recognizer to a committer. A nil logger is replaced by
// a no-op one.
func NewSession(rec Recognizer, c Committer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{rec: rec, committer: c, log: log}
}

// OnUpdate registers a callback invoked after every state change. It runs
// outside the session lock.
func (s *Session) OnUpdate(fn func(Snapshot)) {
	s.mu.Lock()
	s.onUpdate = fn
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      s.state,
		Interim:    s.interim,
		Transcript: s.transcript,
		Last:       s.last,
		Err:        s.err,
	}
	if s.pending != nil {
		p := *s.pending
		snap.Pending = &p
	}
	return snap
}

// update runs fn under the lock and then notifies the listener.
func (s *Session) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	notify := s.onUpdate
	s.mu.Unlock()
	if notify != nil {
		notify(snap)
	}
}

// HandleFinal applies one final transcript. Interpretations are derived
// from the latest transcript alone, so repeated finals are harmless.
func (s *Session) HandleFinal(transcript string) (out Outcome, err error) {
	s.update(func() {
		out, err = s.handleLocked(transcript)
		s.transcript = transcript
		s.interim = ""
		s.last = out
	})
	return out, err
}

func (s *Session) handleLocked(transcript string) (Outcome, error) {
	switch ParseCommand(transcript) {
	case Confirm:
		if s.pending == nil {
			return Ignored, nil
		}
		if !s.pending.Complete() {
			s.log.Debug("voice confirm on incomplete reading",
				zap.Int("tooth", int(s.pending.Target.Tooth)),
				zap.Int("missing", s.pending.Missing))
			return Incomplete, nil
		}
		if err := s.committer.CommitVoice(*s.pending); err != nil {
			return Ignored, errors.Wrap(err, "commit voice entry")
		}
		s.log.Info("voice entry committed",
			zap.Int("tooth", int(s.pending.Target.Tooth)),
			zap.String("surface", string(s.pending.Target.Surface)),
			zap.Ints("pd", s.pending.PD),
			zap.Ints("re", s.pending.RE))
		s.pending = nil
		return Committed, nil
	case Cancel:
		if s.pending == nil {
			return Ignored, nil
		}
		s.pending = nil
		return Cancelled, nil
	}

	values := Normalize(transcript)
	if len(values) == 0 {
		return Ignored, nil
	}
	target, ok := s.committer.VoiceTarget()
	if !ok {
		s.pending = nil
		return NoTarget, nil
	}
	in := Interpret(values, target)
	s.pending = &in
	s.log.Debug("voice reading proposed",
		zap.String("transcript", transcript),
		zap.Ints("values", values),
		zap.Int("missing", in.Missing),
		zap.Int("extra", in.Extra))
	return Proposed, nil
}

// Run listens until ctx is cancelled, Stop is called, the recognizer has
// nothing left, or it fails. The recognizer is restarted whenever it ends
// on its own; it is never restarted after Stop.
func (s *Session) Run(ctx context.Context) error {
	s.update(func() {
		s.manualStop = false
		s.err = nil
	})
	defer s.rec.Stop()

	for {
		events, err := s.rec.Start(ctx)
		if errors.Is(err, io.EOF) {
			s.update(func() { s.state = Stopped })
			return nil
		}
		if err != nil {
			return s.fail(errors.Wrap(err, "start recognizer"))
		}
		s.update(func() { s.state = Listening })

		if err := s.consume(ctx, events); err != nil {
			return err
		}
		if ctx.Err() != nil {
			s.update(func() { s.state = Stopped })
			return ctx.Err()
		}
		if s.stopped() {
			return nil
		}
		s.log.Debug("recognizer ended, restarting")
	}
}

// consume handles events until the channel closes or ctx is done.
func (s *Session) consume(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case <-ctx.Done():
			_ = s.rec.Stop()
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case Interim:
				s.update(func() { s.interim = ev.Transcript })
			case Final:
				if s.stopped() {
					continue
				}
				if _, err := s.HandleFinal(ev.Transcript); err != nil {
					s.log.Warn("voice entry rejected", zap.Error(err))
				}
			case End:
				// the channel closes next
			case Error:
				return s.fail(ev.Err)
			}
		}
	}
}

func (s *Session) fail(err error) error {
	if err == nil {
		err = errors.New("recognizer failed")
	}
	s.log.Error("voice recognition failed", zap.Error(err))
	s.update(func() {
		s.state = Failed
		s.err = err
		s.pending = nil
	})
	return err
}

func (s *Session) stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualStop
}

// Stop ends listening on purpose and discards any unconfirmed reading.
func (s *Session) Stop() error {
	s.update(func() {
		s.manualStop = true
		s.pending = nil
		s.interim = ""
		if s.state != Failed {
			s.state = Stopped
		}
	})
	return s.rec.Stop()
}
