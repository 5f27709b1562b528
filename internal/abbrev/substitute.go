package abbrev

import (
	"fmt"
	"strings"
)

// Progress receives the number of table pairs compared so far. It is purely
// observational and must not affect the outcome.
type Progress func(done, total int)

// Replacement records one table pair that matched the buffer.
type Replacement struct {
	Pair
	Count int `json:"count"`
}

// String renders the replacement as a change-log line.
func (r Replacement) String() string {
	return fmt.Sprintf("%s -> %s (%d occurrences)", r.Full, r.Short, r.Count)
}

// Result is the outcome of Substitute.
type Result struct {
	Text         string
	Replacements []Replacement
}

// Occurrences sums the replaced occurrences across all pairs.
func (r Result) Occurrences() int {
	n := 0
	for _, rep := range r.Replacements {
		n += rep.Count
	}
	return n
}

// Log renders one line per replacement, in table order.
func (r Result) Log() []string {
	lines := make([]string, 0, len(r.Replacements))
	for _, rep := range r.Replacements {
		lines = append(lines, rep.String())
	}
	return lines
}

// Substitute replaces every full journal name in buf with its abbreviation,
// walking the table in order so each pair sees the edits of earlier pairs.
// Matching is plain substring matching with no word-boundary checks.
//
// An empty table returns buf unchanged together with ErrTableUnavailable.
func Substitute(buf string, table *Table, progress Progress) (Result, error) {
	if table.Empty() {
		return Result{Text: buf}, ErrTableUnavailable
	}

	total := table.Len()
	step := 1
	if total > 100 {
		step = total / 100
	}

	res := Result{Text: buf}
	for i, p := range table.Pairs {
		if strings.Contains(res.Text, p.Full) {
			count := strings.Count(res.Text, p.Full)
			res.Text = strings.ReplaceAll(res.Text, p.Full, p.Short)
			res.Replacements = append(res.Replacements, Replacement{Pair: p, Count: count})
		}
		if progress != nil && i%step == 0 {
			progress(i, total)
		}
	}
	if progress != nil {
		progress(total, total)
	}
	return res, nil
}
