package status

import "testing"

func TestSetClearsHigherLevels(t *testing.T) {
	tbl := New()
	tbl.Set(0, "x86:")
	tbl.Set(1, "Building c1:")
	tbl.Set(2, "[compile] f1.o")

	if got, want := tbl.String(), "x86:  Building c1:  [compile] f1.o"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// Invariant 5: Context(0) deletes table[k] for k > 0.
	tbl.Set(0, "x86_64:")
	if got, want := tbl.String(), "x86_64:"; got != want {
		t.Fatalf("after re-context at level 0: got %q, want %q", got, want)
	}
}

func TestGapsRenderAsEmptySlots(t *testing.T) {
	tbl := New()
	tbl.Set(2, "[compile] f1.o")

	if got, want := tbl.String(), "    [compile] f1.o"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	levels := tbl.Levels()
	if len(levels) != 3 || levels[0] != "" || levels[1] != "" || levels[2] != "[compile] f1.o" {
		t.Fatalf("got %#v", levels)
	}
}

func TestEmptyTable(t *testing.T) {
	tbl := New()
	if !tbl.Empty() {
		t.Fatal("new table should be empty")
	}
	if tbl.String() != "" {
		t.Fatalf("empty table should compose to empty string, got %q", tbl.String())
	}
	if tbl.Levels() != nil {
		t.Fatalf("empty table should have no levels, got %#v", tbl.Levels())
	}
}

func TestLevelDoesNotAffectLowerLevels(t *testing.T) {
	tbl := New()
	tbl.Set(0, "outer")
	tbl.Set(1, "inner-a")
	tbl.Set(1, "inner-b")
	if got, want := tbl.String(), "outer  inner-b"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
