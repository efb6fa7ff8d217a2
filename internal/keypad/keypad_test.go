package keypad

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/perioflow/perioflow/internal/chart"
	"github.com/perioflow/perioflow/internal/cursor"
	"github.com/perioflow/perioflow/internal/dental"
	"github.com/perioflow/perioflow/internal/sequence"
)

func setup(t *testing.T, modes sequence.Modes) (*Interpreter, *cursor.Cursor, *chart.Chart) {
	t.Helper()
	seq := sequence.Build(nil, modes, sequence.DefaultSegments())
	c := cursor.New(seq)
	c.Start()
	ch := chart.New("test")
	return New(c, ch), c, ch
}

func TestEnter_RecordsAndAdvances(t *testing.T) {
	k, c, ch := setup(t, sequence.AllModes())

	res, err := k.Enter(4)
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if res.Step.Tooth != 18 || res.Step.Site != dental.SiteDB || res.Value != 4 {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Flag != nil {
		t.Errorf("4 is in range, got flag %v", res.Flag)
	}
	if ch.Tooth(18).PD[dental.SiteDB] != 4 {
		t.Error("PD not recorded")
	}
	if c.Index() != 1 {
		t.Errorf("Expected cursor at 1, got %d", c.Index())
	}
}

func TestEnter_FlagsOutOfRange(t *testing.T) {
	k, _, ch := setup(t, sequence.AllModes())

	res, err := k.Enter(18)
	if err != nil {
		t.Fatalf("out-of-range values must not be rejected: %v", err)
	}
	if res.Flag == nil || res.Flag.Type != dental.PD {
		t.Errorf("Expected a PD flag, got %v", res.Flag)
	}
	if ch.Tooth(18).PD[dental.SiteDB] != 18 {
		t.Error("flagged value should still be recorded")
	}
}

func TestBleeding(t *testing.T) {
	k, c, ch := setup(t, sequence.Modes{BOP: true})

	if _, err := k.Enter(3); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}

	res, err := k.Bleeding([]dental.Site{dental.SiteMB})
	if err != nil {
		t.Fatalf("Bleeding failed: %v", err)
	}
	if res.Step.Type != dental.BOP {
		t.Errorf("Expected BOP step, got %s", res.Step)
	}
	b := ch.Tooth(18).Bleeding
	if !b[dental.SiteMB] || b[dental.SiteDB] || b[dental.SiteB] {
		t.Errorf("unexpected bleeding %v", b)
	}
	if c.Index() != 1 {
		t.Errorf("Expected cursor at 1, got %d", c.Index())
	}
}

func TestBleeding_WrongStep(t *testing.T) {
	k, _, _ := setup(t, sequence.Modes{PD: true})
	if _, err := k.Bleeding(nil); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
}

func TestInactive(t *testing.T) {
	k, c, _ := setup(t, sequence.AllModes())
	c.Reset()
	if _, err := k.Enter(1); !errors.Is(err, ErrInactive) {
		t.Errorf("Expected ErrInactive, got %v", err)
	}
	if _, _, err := k.Press("1"); !errors.Is(err, ErrInactive) {
		t.Errorf("Expected ErrInactive, got %v", err)
	}
}

func TestEnter_CompletesSequence(t *testing.T) {
	segs := []sequence.Segment{{ID: "q1b", Direction: dental.LR}}
	seq := sequence.Build(sequence.NewMissingSet(17, 16, 15, 14, 13, 12, 11), sequence.Modes{MGJ: true}, segs)
	c := cursor.New(seq)
	c.Start()
	k := New(c, chart.New(""))

	res, err := k.Enter(3)
	if err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if !res.Completed {
		t.Error("single-step sequence should complete")
	}
	if c.State() != cursor.Inactive {
		t.Error("cursor should be inactive after completion")
	}
}

func TestPress_AutoCommit(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		committed []bool
		value     int
	}{
		{"single digit above range tens", []string{"5"}, []bool{true}, 5},
		{"one waits for second digit", []string{"1", "2"}, []bool{false, true}, 12},
		{"one then enter", []string{"1", "enter"}, []bool{false, true}, 1},
		{"zero commits", []string{"0"}, []bool{true}, 0},
		{"backspace", []string{"1", "backspace", "7"}, []bool{false, false, true}, 7},
		{"enter on empty", []string{"enter", "3"}, []bool{false, true}, 3},
		{"ignored key", []string{"x", "4"}, []bool{false, true}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, _, ch := setup(t, sequence.AllModes())
			var last Result
			for i, key := range tt.keys {
				res, committed, err := k.Press(key)
				if err != nil {
					t.Fatalf("Press(%q) failed: %v", key, err)
				}
				if committed != tt.committed[i] {
					t.Fatalf("Press(%q) committed=%v, want %v", key, committed, tt.committed[i])
				}
				if committed {
					last = res
				}
			}
			if last.Value != tt.value {
				t.Errorf("Expected value %d, got %d", tt.value, last.Value)
			}
			if ch.Tooth(18).PD[dental.SiteDB] != tt.value {
				t.Errorf("Expected PD %d recorded, got %d", tt.value, ch.Tooth(18).PD[dental.SiteDB])
			}
		})
	}
}

func TestPress_NegativeRecession(t *testing.T) {
	k, c, ch := setup(t, sequence.Modes{RE: true})

	if _, committed, _ := k.Press("-"); committed {
		t.Fatal("sign alone must not commit")
	}
	if k.Pending() != "-" {
		t.Errorf("Expected pending '-', got %q", k.Pending())
	}
	if _, committed, _ := k.Press("1"); committed {
		t.Fatal("-1 could still become -10")
	}
	res, committed, err := k.Press("0")
	if err != nil || !committed {
		t.Fatalf("-10 should commit, got committed=%v err=%v", committed, err)
	}
	if res.Value != -10 || res.Flag != nil {
		t.Errorf("Expected -10 without flag, got %d (%v)", res.Value, res.Flag)
	}
	if ch.Tooth(18).RE[dental.SiteDB] != -10 {
		t.Error("RE not recorded")
	}

	res, committed, _ = k.Press("3")
	if !committed || res.Value != 3 || c.Index() != 2 {
		t.Errorf("sign should reset after commit, got %d", res.Value)
	}
}

func TestPress_BleedingButtons(t *testing.T) {
	k, c, ch := setup(t, sequence.Modes{BOP: true})

	k.Press("1")
	k.Press("3")
	k.Press("3")
	k.Press("3")
	if k.Selection() != [3]bool{true, false, true} {
		t.Errorf("unexpected selection %v", k.Selection())
	}
	res, committed, err := k.Press("enter")
	if err != nil || !committed {
		t.Fatalf("enter should commit bleeding, got %v %v", committed, err)
	}
	// 18 buccal buttons are db, b, mb
	if len(res.Bleeding) != 2 || res.Bleeding[0] != dental.SiteDB || res.Bleeding[1] != dental.SiteMB {
		t.Errorf("unexpected bleeding sites %v", res.Bleeding)
	}
	if !ch.Tooth(18).Bleeding[dental.SiteMB] {
		t.Error("bleeding not recorded")
	}
	if k.Selection() != [3]bool{} {
		t.Error("selection should clear after commit")
	}

	// Empty selection commits "no bleeding"
	res, committed, _ = k.Press("enter")
	if !committed || len(res.Bleeding) != 0 || c.Index() != 2 {
		t.Errorf("empty enter should record no bleeding, got %+v", res)
	}
}
