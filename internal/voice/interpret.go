package voice

import (
	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/dental"
)

// Target is the tooth surface a transcript fills, with the sites in the
// order the clinician probes them.
type Target struct {
	Tooth   dental.ToothID
	Surface dental.Surface
	Sites   []dental.Site
	PD      bool
	RE      bool
}

// PerSite returns how many values one site takes.
func (t Target) PerSite() int {
	n := 0
	if t.PD {
		n++
	}
	if t.RE {
		n++
	}
	return n
}

// Interpretation is a tentative reading of a transcript. Nothing is written
// to the chart until it is confirmed.
type Interpretation struct {
	Target Target
	Values []int
	// PD and RE are aligned with Target.Sites and may be shorter when the
	// transcript ran out of values.
	PD    []int
	RE    []int
	Flags []chart.Flag
	// Missing counts values still needed; Extra counts values ignored.
	Missing int
	Extra   int
}

// Complete reports whether every site of the target has its values.
func (in Interpretation) Complete() bool {
	return in.Missing == 0 && in.Target.PerSite() > 0
}

// Interpret groups values per site in the target's order. With both PD and
// RE enabled the values alternate pd, re for each site; otherwise each value
// fills one site of the enabled type.
func Interpret(values []int, t Target) Interpretation {
	in := Interpretation{Target: t, Values: append([]int(nil), values...)}
	per := t.PerSite()
	if per == 0 {
		in.Extra = len(values)
		return in
	}

	need := per * len(t.Sites)
	used := values
	if len(used) > need {
		in.Extra = len(used) - need
		used = used[:need]
	}
	in.Missing = need - len(used)

	for i := 0; i < len(used); i += per {
		j := 0
		if t.PD {
			in.PD = append(in.PD, used[i])
			j++
		}
		if t.RE && i+j < len(used) {
			in.RE = append(in.RE, used[i+j])
		}
	}

	for _, v := range in.PD {
		if f := chart.Check(dental.PD, v); f != nil {
			in.Flags = append(in.Flags, *f)
		}
	}
	for _, v := range in.RE {
		if f := chart.Check(dental.RE, v); f != nil {
			in.Flags = append(in.Flags, *f)
		}
	}
	return in
}
