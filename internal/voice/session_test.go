package voice

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeCommitter struct {
	mu        sync.Mutex
	target    Target
	hasTarget bool
	committed []Interpretation
	err       error
}

func (f *fakeCommitter) VoiceTarget() (Target, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target, f.hasTarget
}

func (f *fakeCommitter) CommitVoice(in Interpretation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.committed = append(f.committed, in)
	return nil
}

func (f *fakeCommitter) commits() []Interpretation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Interpretation(nil), f.committed...)
}

// scriptedRecognizer plays one event list per Start call.
type scriptedRecognizer struct {
	mu     sync.Mutex
	runs   [][]Event
	starts int
	stops  int
}

func (r *scriptedRecognizer) Start(ctx context.Context) (<-chan Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.starts >= len(r.runs) {
		r.starts++
		return nil, errors.New("microphone permission denied")
	}
	evs := r.runs[r.starts]
	r.starts++
	ch := make(chan Event, len(evs))
	for _, ev := range evs {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (r *scriptedRecognizer) Stop() error {
	r.mu.Lock()
	r.stops++
	r.mu.Unlock()
	return nil
}

func newSession(t *testing.T, rec Recognizer) (*Session, *fakeCommitter) {
	t.Helper()
	c := &fakeCommitter{target: target(true, true), hasTarget: true}
	return NewSession(rec, c, nil), c
}

func TestSession_ConfirmGate(t *testing.T) {
	s, c := newSession(t, &scriptedRecognizer{})

	out, err := s.HandleFinal("5 1 4 2 3 0")
	require.NoError(t, err)
	assert.Equal(t, Proposed, out)
	assert.Empty(t, c.commits(), "nothing is written before confirmation")

	snap := s.Snapshot()
	require.NotNil(t, snap.Pending)
	assert.Equal(t, []int{5, 4, 3}, snap.Pending.PD)

	out, err = s.HandleFinal("okay")
	require.NoError(t, err)
	assert.Equal(t, Committed, out)
	require.Len(t, c.commits(), 1)
	assert.Equal(t, []int{1, 2, 0}, c.commits()[0].RE)
	assert.Nil(t, s.Snapshot().Pending)
}

func TestSession_LatestTranscriptWins(t *testing.T) {
	s, c := newSession(t, &scriptedRecognizer{})

	_, _ = s.HandleFinal("5 1 4 2 3 0")
	_, _ = s.HandleFinal("3 0 3 0 3 0")
	_, _ = s.HandleFinal("3 0 3 0 3 0")
	_, _ = s.HandleFinal("ตกลง")

	require.Len(t, c.commits(), 1)
	assert.Equal(t, []int{3, 3, 3}, c.commits()[0].PD)
}

func TestSession_Cancel(t *testing.T) {
	s, c := newSession(t, &scriptedRecognizer{})

	_, _ = s.HandleFinal("5 1 4 2 3 0")
	out, _ := s.HandleFinal("cancel")
	assert.Equal(t, Cancelled, out)
	out, _ = s.HandleFinal("ok")
	assert.Equal(t, Ignored, out)
	assert.Empty(t, c.commits())
}

func TestSession_IncompleteConfirm(t *testing.T) {
	s, c := newSession(t, &scriptedRecognizer{})

	_, _ = s.HandleFinal("5 1")
	out, _ := s.HandleFinal("ok")
	assert.Equal(t, Incomplete, out)
	assert.Empty(t, c.commits())
	assert.NotNil(t, s.Snapshot().Pending, "incomplete reading stays pending")
}

func TestSession_NoTarget(t *testing.T) {
	s, c := newSession(t, &scriptedRecognizer{})
	c.hasTarget = false

	out, _ := s.HandleFinal("5 4 3")
	assert.Equal(t, NoTarget, out)
	assert.Nil(t, s.Snapshot().Pending)
}

func TestSession_CommitError(t *testing.T) {
	s, c := newSession(t, &scriptedRecognizer{})
	c.err = errors.New("chart closed")

	_, _ = s.HandleFinal("5 1 4 2 3 0")
	_, err := s.HandleFinal("ok")
	assert.Error(t, err)
	assert.NotNil(t, s.Snapshot().Pending)
}

func TestSession_StopDiscardsPending(t *testing.T) {
	rec := &scriptedRecognizer{}
	s, c := newSession(t, rec)

	_, _ = s.HandleFinal("5 1 4 2 3 0")
	require.NoError(t, s.Stop())
	assert.Nil(t, s.Snapshot().Pending)
	assert.Equal(t, Stopped, s.Snapshot().State)

	out, _ := s.HandleFinal("ok")
	assert.Equal(t, Ignored, out)
	assert.Empty(t, c.commits())
	assert.Equal(t, 1, rec.stops)
}

func TestSession_RunRestartsAfterEnd(t *testing.T) {
	rec := &scriptedRecognizer{runs: [][]Event{
		{{Kind: Interim, Transcript: "five"}, {Kind: Final, Transcript: "5 1 4 2 3 0"}, {Kind: End}},
		{{Kind: Final, Transcript: "ok"}, {Kind: End}},
	}}
	s, c := newSession(t, rec)

	var updates int
	s.OnUpdate(func(Snapshot) { updates++ })

	// the third start fails, which ends the run in the error state
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	assert.Equal(t, 3, rec.starts)
	require.Len(t, c.commits(), 1)
	assert.Equal(t, Failed, s.Snapshot().State)
	assert.Positive(t, updates)
}

func TestSession_ErrorIsTerminal(t *testing.T) {
	rec := &scriptedRecognizer{runs: [][]Event{
		{{Kind: Final, Transcript: "5 1 4 2 3 0"}, {Kind: Error, Err: errors.New("network")}},
		{{Kind: Final, Transcript: "ok"}},
	}}
	s, c := newSession(t, rec)

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, rec.starts, "no restart after an error")
	snap := s.Snapshot()
	assert.Equal(t, Failed, snap.State)
	assert.Nil(t, snap.Pending)
	assert.Empty(t, c.commits())
}

func TestSession_RunWithLineRecognizer(t *testing.T) {
	input := "5 1 4 2 3 0\n\nok\nสาม ศูนย์ สาม ศูนย์ สาม ศูนย์\nยกเลิก\n"
	rec := NewLineRecognizer(strings.NewReader(input))
	s, c := newSession(t, rec)

	require.NoError(t, s.Run(context.Background()))
	rec.Wait()

	require.Len(t, c.commits(), 1)
	assert.Equal(t, []int{5, 4, 3}, c.commits()[0].PD)
	snap := s.Snapshot()
	assert.Equal(t, Stopped, snap.State)
	assert.Equal(t, Cancelled, snap.Last)
}

func TestSession_ManualStopDoesNotRestart(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	rec := NewLineRecognizer(pr)
	s, c := newSession(t, rec)

	committed := make(chan struct{})
	var once sync.Once
	s.OnUpdate(func(snap Snapshot) {
		if snap.Last == Committed {
			once.Do(func() { close(committed) })
		}
	})

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	_, _ = pw.Write([]byte("5 1 4 2 3 0\nok\n"))
	select {
	case <-committed:
	case <-time.After(5 * time.Second):
		t.Fatal("commit not observed")
	}

	require.NoError(t, s.Stop())
	// unblock the pending read so the reader goroutine can exit
	_ = pw.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	rec.Wait()
	assert.Len(t, c.commits(), 1)
	assert.Equal(t, Stopped, s.Snapshot().State)
}

func TestSession_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	rec := NewLineRecognizer(pr)
	s, _ := newSession(t, rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	_ = pw.Close()
	rec.Wait()
}
