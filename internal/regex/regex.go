package regex

import (
	"fmt"
	"regexp"
	"strings"
)

// Regex for filtering lines.
type Regex struct {
	// The original regex string
	regexStr string
	// The Golang regexp object
	re *regexp.Regexp
	// For now only use the first flag at flags[0], but in the future we can
	// set and use multiple flags.
	flags       []Flag
	initialized bool
	// Fields for optimized literal string matching
	isLiteral  bool   // true if pattern contains no regex metacharacters
	literalStr string // literal string for string matching
}

func (r Regex) String() string {
	return fmt.Sprintf("Regex(regexStr:%s,flags:%s,initialized:%t,re==nil:%t,isLiteral:%t)",
		r.regexStr, r.flags, r.initialized, r.re == nil, r.isLiteral)
}

// isLiteralPattern checks if the pattern contains no regex metacharacters.
// It returns true only for patterns that can be matched using simple string contains.
func isLiteralPattern(pattern string) bool {
	// Check for common regex metacharacters
	// Note: We're being conservative here - only treating truly literal strings as literals
	metaChars := `.+*?^$[]{}()|\\`
	for _, ch := range pattern {
		if strings.ContainsRune(metaChars, ch) {
			return false
		}
	}
	return true
}

// NewNoop is a noop regex (doing nothing).
func NewNoop() Regex {
	return Regex{
		flags:       []Flag{Noop},
		initialized: true,
	}
}

// New returns a new regex object.
func New(regexStr string, flag Flag) (Regex, error) {
	if regexStr == "" || regexStr == "." || regexStr == ".*" {
		return NewNoop(), nil
	}
	return new(regexStr, []Flag{flag})
}

func new(regexStr string, flags []Flag) (Regex, error) {
	if len(flags) == 0 {
		flags = append(flags, Default)
	}

	r := Regex{
		regexStr: regexStr,
		flags:    flags,
	}

	// Check if this is a literal pattern for optimization
	if isLiteralPattern(regexStr) {
		r.isLiteral = true
		r.literalStr = regexStr
		r.initialized = true
		// Still compiled so r.re is non-nil, even though MatchString takes
		// the strings.Contains fast path.
		re, err := regexp.Compile(regexStr)
		if err != nil {
			return r, err
		}
		r.re = re
		return r, nil
	}

	// For non-literal patterns, compile as regex
	re, err := regexp.Compile(regexStr)
	if err != nil {
		return r, err
	}

	r.re = re
	r.initialized = true
	return r, nil
}

// MatchString matches a string.
func (r Regex) MatchString(str string) bool {
	if r.flags[0] == Noop {
		return true
	}
	// Use optimized literal matching if possible
	if r.isLiteral {
		return strings.Contains(str, r.literalStr)
	}
	return r.re.MatchString(str)
}

// IsLiteral returns true if this regex is using literal string matching.
func (r Regex) IsLiteral() bool {
	return r.isLiteral
}

// Pattern returns the original pattern string.
func (r Regex) Pattern() string {
	return r.regexStr
}

// Describe renders the regex for --debug startup logging, e.g. when
// internal/dlog echoes the effective ruleset. Not a wire format: ptee
// has no second process to deserialize it.
func (r Regex) Describe() (string, error) {
	var flags []string
	for _, flag := range r.flags {
		flags = append(flags, flag.String())
	}
	if !r.initialized {
		return "", fmt.Errorf("regex not initialized properly: %v", r)
	}
	if r.isLiteral {
		flags = append(flags, "literal")
	}
	return fmt.Sprintf("regex:%s %s", strings.Join(flags, ","), r.regexStr), nil
}
