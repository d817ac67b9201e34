package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/drmikehenry/ptee/internal/classify"
	"github.com/drmikehenry/ptee/internal/framer"
	"github.com/drmikehenry/ptee/internal/render"
)

func mustLevel(t *testing.T, level int, pattern string) classify.Rule {
	t.Helper()
	r, err := classify.NewLevelRule(level, pattern)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mustHeading(t *testing.T, pattern string) classify.Rule {
	t.Helper()
	r, err := classify.NewHeadingRule(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func mustSkip(t *testing.T, count int, pattern string) classify.Rule {
	t.Helper()
	r, err := classify.NewSkipRule(count, pattern)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func run(t *testing.T, input string, rules []classify.Rule) string {
	t.Helper()
	var buf bytes.Buffer
	sink := render.NewTestSink("out", &buf, render.Auto)
	renderer := render.New(sink, nil)
	c := classify.New(rules)
	p := New(c, renderer, nil)

	f := framer.New(strings.NewReader(input), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.Run(ctx, f); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

// TestScenarioA runs scenario A's input through the whole pipeline. The
// expected output follows the scenario A/C resolution in DESIGN.md: the
// trailing context "gcc c.c" is never committed.
func TestScenarioA(t *testing.T) {
	input := "gcc a.c\ngcc b.c\nwarning: x\ngcc c.c\n"
	got := run(t, input, []classify.Rule{mustLevel(t, 0, "^gcc")})
	want := "gcc b.c\nwarning: x\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestScenarioB reproduces scenario B.
func TestScenarioB(t *testing.T) {
	input := "x86:\nBuilding c1:\n[compile] f1.o\n[compile] f2.o\nwarn\nx86_64:\n"
	rules := []classify.Rule{
		mustLevel(t, 0, `^(x86|x86_64):`),
		mustLevel(t, 1, `^Building `),
		mustLevel(t, 2, `^\[`),
	}
	got := run(t, input, rules)
	want := "x86:\nBuilding c1:\n[compile] f2.o\nwarn\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestScenarioC reproduces scenario C: a heading never
// promotes a level-2 context because no Regular line ever occurs.
func TestScenarioC(t *testing.T) {
	input := "[compile] f1.o\n----- x86 -----\n[compile] f2.o\n"
	rules := []classify.Rule{
		mustLevel(t, 2, `^\[`),
		mustHeading(t, `^-----`),
	}
	got := run(t, input, rules)
	want := "----- x86 -----\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// TestScenarioD reproduces scenario D: skipped lines never
// reach the classifier's other rules or the output.
func TestScenarioD(t *testing.T) {
	input := "[compile] f1.o\nsystem-header:1: warn\nin arg\n---^\n[compile] f2.o\n"
	rules := []classify.Rule{
		mustLevel(t, 2, `^\[`),
		mustSkip(t, 3, `^system-header`),
	}
	got := run(t, input, rules)
	if strings.Contains(got, "system-header") || strings.Contains(got, "in arg") || strings.Contains(got, "---^") {
		t.Fatalf("skipped lines leaked into output: %q", got)
	}
}

func TestNoOutputWithoutAnyRegularLine(t *testing.T) {
	got := run(t, "gcc a.c\ngcc b.c\n", []classify.Rule{mustLevel(t, 0, "^gcc")})
	if got != "" {
		t.Fatalf("expected empty stripped output with no Regular line, got %q", got)
	}
}
