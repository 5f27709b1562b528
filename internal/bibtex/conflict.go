package bibtex

import "regexp"

var (
	urlFieldRe = regexp.MustCompile(`(?i)url[ \t]*=`)
	doiFieldRe = regexp.MustCompile(`(?i)doi[ \t]*=`)
	doiLineRe  = regexp.MustCompile(`(?im)^[ \t]*doi[ \t]*=.*(\r?\n)?`)
)

// CleanResult is the outcome of a conflict-cleaning pass.
type CleanResult struct {
	// Text is the rebuilt buffer.
	Text string

	// Modified lists the entries (after cleaning) that lost at least one line.
	Modified []Entry

	// LinesRemoved counts every removed doi line across all entries.
	LinesRemoved int
}

// HasConflict reports whether an entry carries both a url and a doi field
// marker. The check is a case-insensitive substring test, so a marker inside
// a value also counts.
func HasConflict(text string) bool {
	return urlFieldRe.MatchString(text) && doiFieldRe.MatchString(text)
}

// StripDOI removes every line whose first non-blank text is a doi field,
// including its line break, and returns the number of lines removed.
func StripDOI(text string) (string, int) {
	matches := doiLineRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}
	return doiLineRe.ReplaceAllString(text, ""), len(matches)
}

// Clean drops the doi field from every entry that also has a url field.
func Clean(buf string) CleanResult {
	entries := Split(buf)
	var res CleanResult
	for i, e := range entries {
		if !HasConflict(e.Text) {
			continue
		}
		text, n := StripDOI(e.Text)
		if n == 0 {
			continue
		}
		entries[i].Text = text
		res.Modified = append(res.Modified, entries[i])
		res.LinesRemoved += n
	}
	res.Text = Join(entries)
	return res
}

// CleanConflicts returns the cleaned buffer and the number of entries that
// had at least one doi line removed.
func CleanConflicts(buf string) (string, int) {
	res := Clean(buf)
	return res.Text, len(res.Modified)
}
