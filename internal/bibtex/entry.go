package bibtex

import "strings"

// Boundary is the separator that starts every entry after the first.
const Boundary = "\n@"

// Entry is one segment of a reference buffer. Text includes the leading
// Boundary for every entry except a preamble that precedes the first marker.
type Entry struct {
	Text string
}

// Type returns the entry type word after '@' (e.g. "article"), lower-cased.
// Returns "" for a preamble fragment.
func (e Entry) Type() string {
	body, ok := e.body()
	if !ok {
		return ""
	}
	end := strings.IndexAny(body, "{(")
	if end < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body[:end]))
}

// Key returns the citation key, i.e. the text between the opening
// delimiter and the first comma. Best effort: "" when it cannot be found.
func (e Entry) Key() string {
	body, ok := e.body()
	if !ok {
		return ""
	}
	open := strings.IndexAny(body, "{(")
	if open < 0 {
		return ""
	}
	rest := body[open+1:]
	end := strings.IndexAny(rest, ",\n")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// Label is a short human-readable name for log lines.
func (e Entry) Label() string {
	if key := e.Key(); key != "" {
		return key
	}
	if typ := e.Type(); typ != "" {
		return "@" + typ
	}
	return "(preamble)"
}

func (e Entry) body() (string, bool) {
	if !strings.HasPrefix(e.Text, Boundary) {
		return "", false
	}
	return e.Text[len(Boundary):], true
}

// Split segments buf into entries. A newline is prepended so the first record
// gets the same boundary as the rest; fragments that are only whitespace are
// dropped, everything else is kept in order.
func Split(buf string) []Entry {
	parts := strings.Split("\n"+buf, Boundary)
	entries := make([]Entry, 0, len(parts))
	for i, part := range parts {
		text := part
		if i > 0 {
			text = Boundary + part
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		entries = append(entries, Entry{Text: text})
	}
	return entries
}

// Join concatenates entries in order and trims surrounding whitespace.
func Join(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Text)
	}
	return strings.TrimSpace(b.String())
}
