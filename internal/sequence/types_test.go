package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perioflow/perioflow/internal/dental"
)

func TestParseModes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Modes
		wantErr bool
	}{
		{name: "empty", input: "", want: Modes{}},
		{name: "all", input: "all", want: AllModes()},
		{name: "subset", input: "pd, bop", want: Modes{PD: true, BOP: true}},
		{name: "case", input: "PD,MGJ", want: Modes{PD: true, MGJ: true}},
		{name: "invalid", input: "pd,cal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModes_String(t *testing.T) {
	assert.Equal(t, "pd,re,bop,mgj", AllModes().String())
	assert.Equal(t, "none", Modes{}.String())
	assert.False(t, Modes{}.Any())
	assert.True(t, Modes{MGJ: true}.Any())
}

func TestSegmentID_Parts(t *testing.T) {
	q, s, err := SegmentID("q3l").Parts()
	require.NoError(t, err)
	assert.Equal(t, dental.LowerLeft, q)
	assert.Equal(t, dental.Lingual, s)

	for _, bad := range []string{"", "q5b", "x1b", "q1x", "q1bb"} {
		_, _, err := SegmentID(bad).Parts()
		assert.Error(t, err, "segment %q", bad)
	}

	assert.Equal(t, SegmentID("q4b"), NewSegmentID(dental.LowerRight, dental.Buccal))
}

func TestValidateSegments(t *testing.T) {
	require.NoError(t, ValidateSegments(DefaultSegments()))

	dup := append(DefaultSegments(), Segment{ID: "q1b", Direction: dental.LR})
	assert.Error(t, ValidateSegments(dup))

	assert.Error(t, ValidateSegments([]Segment{{ID: "q1b", Direction: "UP"}}))
	assert.Error(t, ValidateSegments([]Segment{{ID: "q9b", Direction: dental.LR}}))
}

func TestDefaultSegments_CoverEveryUnit(t *testing.T) {
	segs := DefaultSegments()
	require.Len(t, segs, 8)
	seen := map[SegmentID]bool{}
	for _, q := range dental.AllQuadrants() {
		for _, s := range dental.AllSurfaces() {
			seen[NewSegmentID(q, s)] = false
		}
	}
	for _, seg := range segs {
		_, ok := seen[seg.ID]
		require.True(t, ok, "unexpected segment %s", seg.ID)
		seen[seg.ID] = true
	}
	for id, ok := range seen {
		assert.True(t, ok, "segment %s not covered", id)
	}
}

func TestMissingSet(t *testing.T) {
	m := NewMissingSet(38, 18, 28)
	assert.True(t, m.Has(18))
	assert.False(t, m.Has(17))
	assert.Equal(t, []dental.ToothID{18, 28, 38}, m.Sorted())

	c := m.Clone()
	c[17] = true
	assert.False(t, m.Has(17))

	var none MissingSet
	assert.False(t, none.Has(11))
}

func TestStep_EqualAndCovers(t *testing.T) {
	a := Step{Tooth: 16, Surface: dental.Buccal, Sites: []dental.Site{dental.SiteDB, dental.SiteB, dental.SiteMB}, Type: dental.BOP}
	b := Step{Tooth: 16, Surface: dental.Buccal, Sites: []dental.Site{dental.SiteDB, dental.SiteB, dental.SiteMB}, Type: dental.BOP}
	assert.True(t, a.Equal(b))
	assert.True(t, a.Covers(dental.SiteMB))
	assert.False(t, a.Covers(dental.SiteML))

	b.Sites = []dental.Site{dental.SiteMB, dental.SiteB, dental.SiteDB}
	assert.False(t, a.Equal(b))

	assert.Equal(t, "16 buccal [db b mb] bop", a.String())
	assert.Equal(t, "21 lingual ml re", Step{Tooth: 21, Surface: dental.Lingual, Site: dental.SiteML, Type: dental.RE}.String())
}

func TestLookup(t *testing.T) {
	seq := Build(nil, AllModes(), DefaultSegments())

	i := IndexOf(seq, 21, dental.Buccal, "")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, dental.SiteMB, seq[i].Site)

	j := IndexOf(seq, 21, dental.Buccal, dental.SiteDB)
	assert.Equal(t, i+2, j)

	assert.Equal(t, -1, IndexOf(seq, 21, dental.Buccal, dental.SiteML))
	assert.Equal(t, -1, IndexOf(Build(NewMissingSet(21), AllModes(), DefaultSegments()), 21, dental.Buccal, ""))

	assert.Equal(t, i, Find(seq, seq[i]))
	assert.Equal(t, -1, Find(seq, Step{Tooth: 19}))

	reOnly := Build(nil, Modes{RE: true}, DefaultSegments())
	assert.Equal(t, []dental.Site{dental.SiteMB, dental.SiteB, dental.SiteDB}, SurfaceSites(reOnly, 21, dental.Buccal))
	assert.Nil(t, SurfaceSites(Build(nil, Modes{BOP: true}, DefaultSegments()), 21, dental.Buccal))
}
