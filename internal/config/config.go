// Package config parses ptee's command-line arguments into a validated
// Config, following the teacher's flag.FlagSet-based Args style (see
// cmd/dcat/main.go) collapsed to ptee's single role — there is no
// client/server split to thread through transformConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/drmikehenry/ptee/internal/classify"
	"github.com/drmikehenry/ptee/internal/constants"
	"github.com/drmikehenry/ptee/internal/ptrerr"
)

// LevelRuleArg is one parsed --level-regex LEVEL PATTERN (or --regex
// PATTERN, sugar for level 0).
type LevelRuleArg struct {
	Level   int
	Pattern string
}

// SkipRuleArg is one parsed --skip-regex COUNT PATTERN.
type SkipRuleArg struct {
	Count   int
	Pattern string
}

// Config is the fully-parsed, fully-validated set of options a run of ptee
// acts on. Building one from argv can fail with a ConfigError; once built,
// every field is ready to use as-is.
type Config struct {
	LevelRules    []LevelRuleArg
	HeadingRegexs []string
	SkipRules     []SkipRuleArg

	Strip   bool
	NoStrip bool

	PartialLineTimeout time.Duration
	Encoding           string

	OutFiles []string

	Debug          bool
	DisplayVersion bool
}

// repeatableString accumulates every occurrence of a repeatable string
// flag, in the order given on the command line (declaration order matters
// for --heading-regex evaluation).
type repeatableString struct {
	values *[]string
}

func (r *repeatableString) String() string { return "" }
func (r *repeatableString) Set(s string) error {
	*r.values = append(*r.values, s)
	return nil
}

// levelRuleFlag parses "--level-regex LEVEL PATTERN" as a single flag
// value of the form "LEVEL PATTERN", since Go's flag package only gives
// each flag one token; joinTwoTokenFlags (run by Parse) joins the two argv
// tokens into "LEVEL PATTERN" before Set sees them. See ParseLevelRule.
type levelRuleFlag struct {
	values *[]LevelRuleArg
}

func (f *levelRuleFlag) String() string { return "" }
func (f *levelRuleFlag) Set(s string) error {
	arg, err := ParseLevelRule(s)
	if err != nil {
		return err
	}
	*f.values = append(*f.values, arg)
	return nil
}

type skipRuleFlag struct {
	values *[]SkipRuleArg
}

func (f *skipRuleFlag) String() string { return "" }
func (f *skipRuleFlag) Set(s string) error {
	arg, err := ParseSkipRule(s)
	if err != nil {
		return err
	}
	*f.values = append(*f.values, arg)
	return nil
}

// ParseLevelRule parses "LEVEL PATTERN" (space-separated, pattern is
// everything after the first space).
func ParseLevelRule(s string) (LevelRuleArg, error) {
	level, rest, err := splitIntArg(s)
	if err != nil {
		return LevelRuleArg{}, err
	}
	if level < 0 {
		return LevelRuleArg{}, fmt.Errorf("%w: level-regex level must be >= 0, got %d", ptrerr.ErrConfig, level)
	}
	return LevelRuleArg{Level: level, Pattern: rest}, nil
}

// ParseSkipRule parses "COUNT PATTERN".
func ParseSkipRule(s string) (SkipRuleArg, error) {
	count, rest, err := splitIntArg(s)
	if err != nil {
		return SkipRuleArg{}, err
	}
	if count < 1 {
		return SkipRuleArg{}, fmt.Errorf("%w: skip-regex count must be >= 1, got %d", ptrerr.ErrConfig, count)
	}
	return SkipRuleArg{Count: count, Pattern: rest}, nil
}

// splitIntArg splits "N REST" on the first space, so REST may itself
// contain spaces (as a regex pattern legitimately can).
func splitIntArg(s string) (int, string, error) {
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return 0, "", fmt.Errorf("%w: expected \"N PATTERN\", got %q", ptrerr.ErrConfig, s)
	}
	var n int
	if _, err := fmt.Sscanf(s[:idx], "%d", &n); err != nil {
		return 0, "", fmt.Errorf("%w: expected a leading integer, got %q", ptrerr.ErrConfig, s[:idx])
	}
	return n, s[idx+1:], nil
}

// joinTwoTokenFlags rewrites occurrences of "--level-regex LEVEL PATTERN"
// and "--skip-regex COUNT PATTERN" into the same flag followed by a
// single-token "N PATTERN" value (one argv slot, space-joined), since the
// standard flag package hands each flag.Value one token. Every other
// argument passes through unchanged.
func joinTwoTokenFlags(argv []string) ([]string, error) {
	out := make([]string, 0, len(argv))
	twoToken := map[string]bool{
		"--level-regex": true, "-level-regex": true,
		"--skip-regex": true, "-skip-regex": true,
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		if twoToken[arg] {
			if i+2 >= len(argv) {
				return nil, fmt.Errorf("%w: %s requires two arguments (N and PATTERN)", ptrerr.ErrConfig, arg)
			}
			out = append(out, arg, argv[i+1]+" "+argv[i+2])
			i += 2
			continue
		}
		out = append(out, arg)
	}
	return out, nil
}

// Parse builds a Config from argv (excluding the program name), following
// the teacher's flag.FlagSet-per-invocation style so tests can call Parse
// repeatedly without global flag-registration conflicts.
func Parse(argv []string, stderr io.Writer) (*Config, []string, error) {
	argv, err := joinTwoTokenFlags(argv)
	if err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet("ptee", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := &Config{}

	// --regex PATTERN is sugar for --level-regex 0 PATTERN, appended to the
	// same list so the two flags interleave in command-line order.
	fs.Func("regex", "Add a level-0 context rule (repeatable)", func(p string) error {
		cfg.LevelRules = append(cfg.LevelRules, LevelRuleArg{Level: 0, Pattern: p})
		return nil
	})
	fs.Var(&levelRuleFlag{&cfg.LevelRules}, "level-regex", "Add a context rule: \"LEVEL PATTERN\" (repeatable)")
	fs.Var(&repeatableString{&cfg.HeadingRegexs}, "heading-regex", "Add a heading rule (repeatable)")
	fs.Var(&skipRuleFlag{&cfg.SkipRules}, "skip-regex", "Add a skip rule: \"COUNT PATTERN\" (repeatable)")

	fs.BoolVar(&cfg.Strip, "strip", false, "Force strip mode on all sinks")
	fs.BoolVar(&cfg.NoStrip, "no-strip", false, "Force no-strip mode on all sinks")
	timeoutSeconds := fs.Float64("partial-line-timeout",
		float64(constants.DefaultPartialLineTimeout)/float64(time.Second),
		"Partial-line timeout in seconds (e.g. 2.0); 0 disables it")
	fs.StringVar(&cfg.Encoding, "encoding", "utf-8", "Text encoding for stdin/stdout/files")
	fs.BoolVar(&cfg.Debug, "debug", false, "Log the effective ruleset and lifecycle transitions to stderr")
	fs.BoolVar(&cfg.DisplayVersion, "version", false, "Display version")

	if err := fs.Parse(argv); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ptrerr.ErrConfig, err)
	}
	cfg.PartialLineTimeout = time.Duration(*timeoutSeconds * float64(time.Second))

	cfg.OutFiles = fs.Args()

	if cfg.Strip && cfg.NoStrip {
		return nil, nil, fmt.Errorf("%w: --strip and --no-strip are mutually exclusive", ptrerr.ErrConfig)
	}
	if cfg.PartialLineTimeout < 0 {
		return nil, nil, fmt.Errorf("%w: --partial-line-timeout must be >= 0", ptrerr.ErrConfig)
	}

	return cfg, fs.Args(), nil
}

// BuildClassifier constructs the classifier rule list from the parsed
// config, in the fixed declaration order the classifier itself expects:
// skip rules, then heading rules, then level rules, each internally in the
// order given on the command line.
func (c *Config) BuildClassifier() (*classify.Classifier, []string, error) {
	var rules []classify.Rule
	var described []string

	for _, s := range c.SkipRules {
		r, err := classify.NewSkipRule(s.Count, s.Pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid --skip-regex pattern %q: %v", ptrerr.ErrConfig, s.Pattern, err)
		}
		rules = append(rules, r)
		described = append(described, r.Describe())
	}
	for _, h := range c.HeadingRegexs {
		r, err := classify.NewHeadingRule(h)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid --heading-regex pattern %q: %v", ptrerr.ErrConfig, h, err)
		}
		rules = append(rules, r)
		described = append(described, r.Describe())
	}
	for _, l := range c.LevelRules {
		r, err := classify.NewLevelRule(l.Level, l.Pattern)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid --level-regex/--regex pattern %q: %v", ptrerr.ErrConfig, l.Pattern, err)
		}
		rules = append(rules, r)
		described = append(described, r.Describe())
	}

	return classify.New(rules), described, nil
}
