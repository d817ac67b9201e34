// Package classify assigns a LineClass to each complete line the framer
// produces, per the classifier's fixed evaluation order: an active skip
// countdown, then skip rules, then heading rules, then level rules, in
// declaration order, falling back to Regular.
package classify

import (
	"fmt"

	"github.com/drmikehenry/ptee/internal/regex"
)

// Kind tags the variant a LineClass carries.
type Kind int

const (
	// Heading lines print as-is; no context is flushed with them.
	Heading Kind = iota
	// Context updates the status table at Level and clears higher levels.
	Context
	// Skip discards this line and the next Count-1 lines.
	Skip
	// Regular flushes the current status and prints the line.
	Regular
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "Heading"
	case Context:
		return "Context"
	case Skip:
		return "Skip"
	case Regular:
		return "Regular"
	default:
		return "Unknown"
	}
}

// LineClass is the tagged result of classifying one complete line.
type LineClass struct {
	Kind  Kind
	Level int // meaningful when Kind == Context
	Count int // meaningful when Kind == Skip
}

func (c LineClass) String() string {
	switch c.Kind {
	case Context:
		return fmt.Sprintf("Context(%d)", c.Level)
	case Skip:
		return fmt.Sprintf("Skip(%d)", c.Count)
	default:
		return c.Kind.String()
	}
}

// ruleKind distinguishes the configured rule kinds that feed the classifier,
// independent of the LineClass.Kind they produce (a skip rule produces no
// per-line event at all, neither for the matching line nor its successors).
type ruleKind int

const (
	ruleSkip ruleKind = iota
	ruleHeading
	ruleLevel
)

// Rule is one configured (pattern, class) pair. Rules are evaluated by
// kind in fixed order — skip rules, then heading rules, then level rules —
// each kind kept as its own ordered slice so "declaration order" is
// literally the order --skip-regex/--heading-regex/--level-regex/--regex
// were given on the command line.
type Rule struct {
	kind  ruleKind
	re    regex.Regex
	level int // for ruleLevel
	count int // for ruleSkip
}

// NewLevelRule builds a context rule at the given level (--level-regex /
// --regex, the latter being sugar for level 0).
func NewLevelRule(level int, pattern string) (Rule, error) {
	re, err := regex.New(pattern, regex.Default)
	if err != nil {
		return Rule{}, err
	}
	return Rule{kind: ruleLevel, re: re, level: level}, nil
}

// NewHeadingRule builds a heading rule (--heading-regex).
func NewHeadingRule(pattern string) (Rule, error) {
	re, err := regex.New(pattern, regex.Default)
	if err != nil {
		return Rule{}, err
	}
	return Rule{kind: ruleHeading, re: re}, nil
}

// NewSkipRule builds a skip rule (--skip-regex COUNT PATTERN). count is the
// total number of lines consumed, including the matching line itself.
func NewSkipRule(count int, pattern string) (Rule, error) {
	re, err := regex.New(pattern, regex.Default)
	if err != nil {
		return Rule{}, err
	}
	return Rule{kind: ruleSkip, re: re, count: count}, nil
}

// Describe renders the rule for --debug startup logging.
func (r Rule) Describe() string {
	desc, err := r.re.Describe()
	if err != nil {
		desc = r.re.Pattern()
	}
	switch r.kind {
	case ruleSkip:
		return fmt.Sprintf("skip(count=%d) %s", r.count, desc)
	case ruleHeading:
		return fmt.Sprintf("heading %s", desc)
	default:
		return fmt.Sprintf("level(%d) %s", r.level, desc)
	}
}

// Classifier holds the ordered rule list plus the running skip countdown.
// It is the single mutator of that countdown: the pipeline is the sole
// mutator of mutable per-stream state elsewhere, and the classifier is the
// component the pipeline delegates that particular piece of state to.
type Classifier struct {
	skipRules    []Rule
	headingRules []Rule
	levelRules   []Rule
	remaining    int // SkipState.remaining
}

// New builds a Classifier from rules in declaration order. Rules may be
// passed in any relative order between kinds; New buckets them by kind while
// preserving each kind's internal declaration order, since step 2-4 of the
// evaluation order is "each kind, in declaration order" rather than a single
// flat priority list across kinds.
func New(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, r := range rules {
		switch r.kind {
		case ruleSkip:
			c.skipRules = append(c.skipRules, r)
		case ruleHeading:
			c.headingRules = append(c.headingRules, r)
		case ruleLevel:
			c.levelRules = append(c.levelRules, r)
		}
	}
	return c
}

// Describe renders the full effective ruleset for --debug startup logging.
func (c *Classifier) Describe() []string {
	var out []string
	for _, r := range c.skipRules {
		out = append(out, r.Describe())
	}
	for _, r := range c.headingRules {
		out = append(out, r.Describe())
	}
	for _, r := range c.levelRules {
		out = append(out, r.Describe())
	}
	return out
}

// Classify assigns a class to one complete, non-bypass line. Bypass lines
// (post-partial-flush) must not be passed here — the pipeline routes them
// directly to Regular without calling Classify at all.
//
// ok is false when the line produced no event (it was consumed by an active
// or newly-triggered skip countdown).
func (c *Classifier) Classify(line string) (class LineClass, ok bool) {
	if c.remaining > 0 {
		c.remaining--
		return LineClass{}, false
	}

	for _, r := range c.skipRules {
		if r.re.MatchString(line) {
			c.remaining = r.count - 1
			return LineClass{}, false
		}
	}

	for _, r := range c.headingRules {
		if r.re.MatchString(line) {
			return LineClass{Kind: Heading}, true
		}
	}

	for _, r := range c.levelRules {
		if r.re.MatchString(line) {
			return LineClass{Kind: Context, Level: r.level}, true
		}
	}

	return LineClass{Kind: Regular}, true
}

// ClassifyBypass classifies a bypass line: always Regular, regardless of any
// configured rule.
func ClassifyBypass() LineClass {
	return LineClass{Kind: Regular}
}
