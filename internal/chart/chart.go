// Package chart holds periodontal chart data: per-tooth measurements keyed
// by site, and the summary statistics derived from them.
package chart

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

// Tooth is the recorded data of one tooth. JSON keys follow the stored
// document layout.
type Tooth struct {
	PD          map[dental.Site]int    `json:"pd,omitempty"`
	RE          map[dental.Site]int    `json:"re,omitempty"`
	MGJ         map[dental.Surface]int `json:"mgj,omitempty"`
	Bleeding    map[dental.Site]bool   `json:"bleeding,omitempty"`
	Suppuration map[dental.Site]bool   `json:"suppuration,omitempty"`
	Plaque      map[dental.Site]bool   `json:"plaque,omitempty"`
	Mobility    *int                   `json:"mo,omitempty"`
	Furcation   map[dental.Site]int    `json:"f,omitempty"`
}

// CAL returns clinical attachment level (PD + RE) at a site when both are
// recorded.
func (t *Tooth) CAL(site dental.Site) (int, bool) {
	if t == nil {
		return 0, false
	}
	pd, okPD := t.PD[site]
	re, okRE := t.RE[site]
	if !okPD || !okRE {
		return 0, false
	}
	return pd + re, true
}

// Chart is one patient's periodontal chart.
type Chart struct {
	ID        string                    `json:"id"`
	Patient   string                    `json:"patient,omitempty"`
	Missing   []dental.ToothID          `json:"missing,omitempty"`
	Teeth     map[dental.ToothID]*Tooth `json:"teeth"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// New creates an empty chart with a fresh ID.
func New(patient string) *Chart {
	now := time.Now().UTC()
	return &Chart{
		ID:        uuid.NewString(),
		Patient:   patient,
		Teeth:     make(map[dental.ToothID]*Tooth),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Tooth returns the data of a tooth, or nil when nothing was recorded.
func (c *Chart) Tooth(id dental.ToothID) *Tooth {
	return c.Teeth[id]
}

func (c *Chart) tooth(id dental.ToothID) (*Tooth, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid tooth %d", id)
	}
	if c.Teeth == nil {
		c.Teeth = make(map[dental.ToothID]*Tooth)
	}
	t := c.Teeth[id]
	if t == nil {
		t = &Tooth{}
		c.Teeth[id] = t
	}
	c.UpdatedAt = time.Now().UTC()
	return t, nil
}

// MissingSet returns the missing teeth as a set.
func (c *Chart) MissingSet() sequence.MissingSet {
	return sequence.NewMissingSet(c.Missing...)
}

// SetMissing replaces the missing teeth. Recorded data is kept so that
// un-marking a tooth restores it.
func (c *Chart) SetMissing(m sequence.MissingSet) {
	c.Missing = m.Sorted()
	c.UpdatedAt = time.Now().UTC()
}

// Record writes a PD, RE or MGJ value for the step.
func (c *Chart) Record(step sequence.Step, value int) error {
	t, err := c.tooth(step.Tooth)
	if err != nil {
		return err
	}
	switch step.Type {
	case dental.PD:
		if t.PD == nil {
			t.PD = make(map[dental.Site]int, 6)
		}
		t.PD[step.Site] = value
	case dental.RE:
		if t.RE == nil {
			t.RE = make(map[dental.Site]int, 6)
		}
		t.RE[step.Site] = value
	case dental.MGJ:
		if t.MGJ == nil {
			t.MGJ = make(map[dental.Surface]int, 1)
		}
		t.MGJ[step.Surface] = value
	default:
		return fmt.Errorf("cannot record a value for a %s step", step.Type)
	}
	return nil
}

// RecordBleeding sets every site of a BOP step: selected sites bleed, the
// others do not.
func (c *Chart) RecordBleeding(step sequence.Step, selected []dental.Site) error {
	if step.Type != dental.BOP {
		return fmt.Errorf("cannot record bleeding for a %s step", step.Type)
	}
	for _, s := range selected {
		if !step.Covers(s) {
			return fmt.Errorf("site %s is not part of %s", s, step)
		}
	}
	t, err := c.tooth(step.Tooth)
	if err != nil {
		return err
	}
	if t.Bleeding == nil {
		t.Bleeding = make(map[dental.Site]bool, 6)
	}
	for _, s := range step.Sites {
		t.Bleeding[s] = contains(selected, s)
	}
	return nil
}

// SetSuppuration records suppuration at a site.
func (c *Chart) SetSuppuration(id dental.ToothID, site dental.Site, on bool) error {
	t, err := c.tooth(id)
	if err != nil {
		return err
	}
	if t.Suppuration == nil {
		t.Suppuration = make(map[dental.Site]bool, 6)
	}
	t.Suppuration[site] = on
	return nil
}

// SetPlaque records plaque at a site.
func (c *Chart) SetPlaque(id dental.ToothID, site dental.Site, on bool) error {
	t, err := c.tooth(id)
	if err != nil {
		return err
	}
	if t.Plaque == nil {
		t.Plaque = make(map[dental.Site]bool, 6)
	}
	t.Plaque[site] = on
	return nil
}

// SetMobility records the Miller mobility grade (0-3).
func (c *Chart) SetMobility(id dental.ToothID, grade int) error {
	if grade < 0 || grade > 3 {
		return fmt.Errorf("mobility grade %d out of range 0-3", grade)
	}
	t, err := c.tooth(id)
	if err != nil {
		return err
	}
	t.Mobility = &grade
	return nil
}

// SetFurcation records the furcation class (0-3) at a site.
func (c *Chart) SetFurcation(id dental.ToothID, site dental.Site, class int) error {
	if class < 0 || class > 3 {
		return fmt.Errorf("furcation class %d out of range 0-3", class)
	}
	t, err := c.tooth(id)
	if err != nil {
		return err
	}
	if t.Furcation == nil {
		t.Furcation = make(map[dental.Site]int, 3)
	}
	t.Furcation[site] = class
	return nil
}

// Clone returns a deep copy.
func (c *Chart) Clone() *Chart {
	out := *c
	out.Missing = append([]dental.ToothID(nil), c.Missing...)
	out.Teeth = make(map[dental.ToothID]*Tooth, len(c.Teeth))
	for id, t := range c.Teeth {
		cp := Tooth{
			PD:          cloneMap(t.PD),
			RE:          cloneMap(t.RE),
			MGJ:         cloneMap(t.MGJ),
			Bleeding:    cloneMap(t.Bleeding),
			Suppuration: cloneMap(t.Suppuration),
			Plaque:      cloneMap(t.Plaque),
			Furcation:   cloneMap(t.Furcation),
		}
		if t.Mobility != nil {
			m := *t.Mobility
			cp.Mobility = &m
		}
		out.Teeth[id] = &cp
	}
	return &out
}

// RecordedTeeth returns the IDs of teeth with data, ascending.
func (c *Chart) RecordedTeeth() []dental.ToothID {
	ids := make([]dental.ToothID, 0, len(c.Teeth))
	for id := range c.Teeth {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func contains(sites []dental.Site, s dental.Site) bool {
	for _, x := range sites {
		if x == s {
			return true
		}
	}
	return false
}
