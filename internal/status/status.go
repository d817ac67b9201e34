// Package status holds the per-level context table and computes the
// composed status string the renderer draws.
package status

import "strings"

// joinSeparator is the fixed two-space join between levels.
const joinSeparator = "  "

// Table is the per-level context table. Gaps are permitted: if level L is
// present, levels {0..L-1} need not be.
type Table struct {
	entries map[int]string
	maxSeen int
}

// New returns an empty context table.
func New() *Table {
	return &Table{entries: make(map[int]string)}
}

// Set implements a Context(L) event: set table[L] and remove all entries
// with key > L. A context at level L never changes levels < L.
func (t *Table) Set(level int, text string) {
	for k := range t.entries {
		if k > level {
			delete(t.entries, k)
		}
	}
	t.entries[level] = text

	t.maxSeen = 0
	for k := range t.entries {
		if k > t.maxSeen {
			t.maxSeen = k
		}
	}
}

// Empty reports whether the table has never had an entry set, or has had
// all of its entries cleared back to nothing.
func (t *Table) Empty() bool {
	return len(t.entries) == 0
}

// String composes the status string: table[0], table[1], ... table[maxSeen],
// missing keys contributing empty strings, joined by two spaces. Newlines
// and trailing whitespace within any entry are preserved as given.
func (t *Table) String() string {
	if len(t.entries) == 0 {
		return ""
	}
	parts := make([]string, t.maxSeen+1)
	for i := range parts {
		parts[i] = t.entries[i]
	}
	return strings.Join(parts, joinSeparator)
}

// Levels returns the per-level lines, in ascending level order, for
// committing a status as permanent output. Gaps are rendered as empty
// lines so the level-to-line mapping stays positional.
func (t *Table) Levels() []string {
	if len(t.entries) == 0 {
		return nil
	}
	out := make([]string, t.maxSeen+1)
	for i := range out {
		out[i] = t.entries[i]
	}
	return out
}
