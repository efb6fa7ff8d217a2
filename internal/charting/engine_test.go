package charting

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
	"github.com/perioflow/perioflow/internal/voice"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(chart.New("test"), DefaultSettings(), nil)
}

func TestEngine_StartsInactive(t *testing.T) {
	e := newEngine(t)
	_, ok := e.Active()
	assert.False(t, ok)
	assert.Equal(t, len(e.Sequence()), e.Index())

	require.NoError(t, e.Start())
	step, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, dental.ToothID(18), step.Tooth)
	assert.Equal(t, dental.PD, step.Type)

	e.Reset()
	_, ok = e.Active()
	assert.False(t, ok)
}

func TestEngine_NoModes(t *testing.T) {
	e := newEngine(t)
	e.SetModes(sequence.Modes{})
	assert.Empty(t, e.Sequence())
	assert.ErrorIs(t, e.Start(), ErrNoModes)
	assert.ErrorIs(t, e.Select(16, dental.Buccal), ErrNoModes)
}

func TestEngine_EmptySequence(t *testing.T) {
	e := newEngine(t)
	e.SetMissing(sequence.NewMissingSet(dental.AllTeeth()...))
	err := e.Start()
	assert.ErrorIs(t, err, ErrEmptySequence)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestEngine_Select(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.Select(36, dental.Lingual, dental.SiteML))
	step, _ := e.Active()
	assert.Equal(t, dental.ToothID(36), step.Tooth)
	assert.Equal(t, dental.SiteML, step.Site)

	e.ToggleMissing(25)
	before := e.Index()
	err := e.Select(25, dental.Buccal)
	assert.ErrorIs(t, err, ErrNoMatchingStep)
	assert.Equal(t, before, e.Index(), "failed select leaves the cursor alone")
}

func TestEngine_RebuildFollowsStep(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Select(21, dental.Buccal, dental.SiteMB))
	want, _ := e.Active()

	e.ToggleMissing(18)
	got, ok := e.Active()
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	// Turning the active type off drops the cursor
	e.SetMode(dental.PD, false)
	_, ok = e.Active()
	assert.False(t, ok)
}

func TestEngine_ToggleMissing(t *testing.T) {
	e := newEngine(t)
	orig := e.Sequence()

	assert.True(t, e.ToggleMissing(16))
	assert.Equal(t, len(orig)-15, len(e.Sequence()))
	assert.Equal(t, []dental.ToothID{16}, e.Chart().Missing)

	assert.False(t, e.ToggleMissing(16))
	assert.Equal(t, orig, e.Sequence())
}

func TestEngine_SetSegments(t *testing.T) {
	e := newEngine(t)
	err := e.SetSegments([]sequence.Segment{{ID: "q9b", Direction: dental.LR}})
	assert.Error(t, err)
	assert.Len(t, e.Settings().Segments, 8)

	require.NoError(t, e.SetSegments([]sequence.Segment{{ID: "q3l", Direction: dental.LR}}))
	seq := e.Sequence()
	require.NotEmpty(t, seq)
	assert.Equal(t, dental.ToothID(31), seq[0].Tooth)
	assert.Equal(t, dental.Lingual, seq[0].Surface)
}

func TestEngine_Keypad(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Start())

	res, err := e.Keypad().Enter(5)
	require.NoError(t, err)
	assert.Equal(t, dental.ToothID(18), res.Step.Tooth)
	assert.Equal(t, 5, e.Chart().Tooth(18).PD[res.Step.Site])
	assert.Equal(t, 1, e.Index())

	e.Undo()
	assert.Equal(t, 0, e.Index())
	e.Redo()
	assert.Equal(t, 1, e.Index())
}

func TestEngine_VoiceTarget(t *testing.T) {
	e := newEngine(t)
	_, ok := e.VoiceTarget()
	assert.False(t, ok, "no target while inactive")

	require.NoError(t, e.Select(16, dental.Buccal))
	tgt, ok := e.VoiceTarget()
	require.True(t, ok)
	assert.Equal(t, dental.ToothID(16), tgt.Tooth)
	assert.Equal(t, dental.Buccal, tgt.Surface)
	assert.Equal(t, []dental.Site{dental.SiteDB, dental.SiteB, dental.SiteMB}, tgt.Sites)
	assert.True(t, tgt.PD && tgt.RE)

	// From the bleeding step the next surface is targeted
	for {
		step, _ := e.Active()
		if step.Type == dental.BOP {
			break
		}
		e.Redo()
	}
	tgt, ok = e.VoiceTarget()
	require.True(t, ok)
	assert.Equal(t, dental.ToothID(15), tgt.Tooth)

	e.SetModes(sequence.Modes{BOP: true})
	_, ok = e.VoiceTarget()
	assert.False(t, ok)
}

func TestEngine_CommitVoice(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Select(16, dental.Buccal))

	tgt, ok := e.VoiceTarget()
	require.True(t, ok)
	in := voice.Interpret([]int{5, 1, 4, 2, 3, 0}, tgt)
	require.NoError(t, e.CommitVoice(in))

	tooth := e.Chart().Tooth(16)
	assert.Equal(t, 5, tooth.PD[dental.SiteDB])
	assert.Equal(t, 4, tooth.PD[dental.SiteB])
	assert.Equal(t, 3, tooth.PD[dental.SiteMB])
	assert.Equal(t, 1, tooth.RE[dental.SiteDB])
	assert.Equal(t, 0, tooth.RE[dental.SiteMB])

	step, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, dental.ToothID(16), step.Tooth)
	assert.Equal(t, dental.BOP, step.Type)
}

func TestEngine_VoiceSession(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Select(24, dental.Lingual))
	s := voice.NewSession(nil, e, nil)

	out, err := s.HandleFinal("ห้า หนึ่ง สี่ สอง สาม ศูนย์")
	require.NoError(t, err)
	assert.Equal(t, voice.Proposed, out)
	assert.Nil(t, e.Chart().Tooth(24), "nothing written before confirmation")

	out, err = s.HandleFinal("ตกลง")
	require.NoError(t, err)
	assert.Equal(t, voice.Committed, out)
	// q2l runs right to left on screen, so 24 is probed distal first
	assert.Equal(t, 5, e.Chart().Tooth(24).PD[dental.SiteDL])
	assert.Equal(t, 3, e.Chart().Tooth(24).PD[dental.SiteML])
	assert.Equal(t, 1, e.Chart().Tooth(24).RE[dental.SiteDL])
}
