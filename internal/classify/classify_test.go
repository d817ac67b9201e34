package classify

import "testing"

func mustLevel(t *testing.T, level int, pattern string) Rule {
	t.Helper()
	r, err := NewLevelRule(level, pattern)
	if err != nil {
		t.Fatalf("NewLevelRule(%d, %q): %v", level, pattern, err)
	}
	return r
}

func mustHeading(t *testing.T, pattern string) Rule {
	t.Helper()
	r, err := NewHeadingRule(pattern)
	if err != nil {
		t.Fatalf("NewHeadingRule(%q): %v", pattern, err)
	}
	return r
}

func mustSkip(t *testing.T, count int, pattern string) Rule {
	t.Helper()
	r, err := NewSkipRule(count, pattern)
	if err != nil {
		t.Fatalf("NewSkipRule(%d, %q): %v", count, pattern, err)
	}
	return r
}

// Scenario A.
func TestBasicContextOverwrite(t *testing.T) {
	c := New([]Rule{mustLevel(t, 0, `^gcc`)})

	lines := []string{"gcc a.c", "gcc b.c", "warning: x", "gcc c.c"}
	var got []LineClass
	for _, l := range lines {
		class, ok := c.Classify(l)
		if !ok {
			t.Fatalf("unexpected skip for %q", l)
		}
		got = append(got, class)
	}

	want := []LineClass{
		{Kind: Context, Level: 0},
		{Kind: Context, Level: 0},
		{Kind: Regular},
		{Kind: Context, Level: 0},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// Scenario B.
func TestThreeLevelHierarchy(t *testing.T) {
	c := New([]Rule{
		mustLevel(t, 0, `^(x86|x86_64):`),
		mustLevel(t, 1, `^Building `),
		mustLevel(t, 2, `^\[`),
	})

	lines := []string{"x86:", "Building c1:", "[compile] f1.o", "[compile] f2.o", "warn", "x86_64:"}
	wantLevels := []int{0, 1, 2, 2, -1, 0}
	wantKinds := []Kind{Context, Context, Context, Context, Regular, Context}

	for i, l := range lines {
		class, ok := c.Classify(l)
		if !ok {
			t.Fatalf("unexpected skip for %q", l)
		}
		if class.Kind != wantKinds[i] {
			t.Errorf("line %d (%q): kind got %v, want %v", i, l, class.Kind, wantKinds[i])
		}
		if class.Kind == Context && class.Level != wantLevels[i] {
			t.Errorf("line %d (%q): level got %d, want %d", i, l, class.Level, wantLevels[i])
		}
	}
}

// Scenario C's rules plus a level rule that also matches the heading line:
// a line matching both a level rule and a heading rule resolves to Heading
// because heading rules are evaluated before level rules (step order), even
// when the level rule is declared first.
func TestHeadingBeatsLevelRule(t *testing.T) {
	c := New([]Rule{
		mustLevel(t, 0, `x86`),
		mustLevel(t, 2, `^\[`),
		mustHeading(t, `^-----`),
	})

	class, ok := c.Classify("----- x86 -----")
	if !ok || class.Kind != Heading {
		t.Fatalf("got %v, ok=%v, want Heading", class, ok)
	}

	class, ok = c.Classify("[compile] f1.o")
	if !ok || class.Kind != Context || class.Level != 2 {
		t.Fatalf("got %v, ok=%v, want Context(2)", class, ok)
	}
}

// Scenario D.
func TestSkipConsumesFollowingLines(t *testing.T) {
	c := New([]Rule{
		mustLevel(t, 2, `^\[`),
		mustSkip(t, 3, `^system-header`),
	})

	lines := []string{
		"[compile] f1.o",
		"system-header:1: warn",
		"in arg",
		"---^",
		"[compile] f2.o",
	}
	var kept []string
	for _, l := range lines {
		if class, ok := c.Classify(l); ok {
			kept = append(kept, class.String())
		}
	}

	want := []string{"Context(2)", "Context(2)"}
	if len(kept) != len(want) {
		t.Fatalf("got %v, want %v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("kept[%d] = %s, want %s", i, kept[i], want[i])
		}
	}
}

func TestSkipCountIncludesMatchingLine(t *testing.T) {
	c := New([]Rule{mustSkip(t, 1, `^drop`)})

	if _, ok := c.Classify("drop me"); ok {
		t.Fatal("matching skip line itself must be dropped")
	}
	class, ok := c.Classify("keep me")
	if !ok || class.Kind != Regular {
		t.Fatalf("got %v, ok=%v, want Regular", class, ok)
	}
}

func TestClassifyBypassAlwaysRegular(t *testing.T) {
	// Even with rules that would otherwise match, a bypass line always
	// resolves to Regular without consulting the classifier at all.
	if class := ClassifyBypass(); class.Kind != Regular {
		t.Errorf("got %v, want Regular", class)
	}
}

func TestNoMatchIsRegular(t *testing.T) {
	c := New([]Rule{mustLevel(t, 0, `^gcc`)})
	class, ok := c.Classify("unrelated output")
	if !ok || class.Kind != Regular {
		t.Fatalf("got %v, ok=%v, want Regular", class, ok)
	}
}
