package abbrev

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/danieljhkim/bibtidy/internal/hash"
)

// Delimiter separates the full and short forms on a table line.
const Delimiter = " = "

// Encodings reported in Table.Encoding.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// Pair maps a brace-wrapped full journal name to its brace-wrapped
// abbreviation.
type Pair struct {
	Full  string `json:"full"`
	Short string `json:"short"`
}

// Table is an ordered, read-only list of abbreviation pairs. Order decides
// precedence during substitution.
type Table struct {
	Pairs []Pair `json:"-"`

	// Source is the path the table was read from ("" when parsed from memory).
	Source string `json:"source"`

	// Encoding is the text encoding the source was decoded with.
	Encoding string `json:"encoding,omitempty"`

	// Digest is the SHA-256 of the raw source bytes.
	Digest string `json:"digest,omitempty"`

	// Skipped counts delimited lines rejected as acronyms or single words.
	Skipped int `json:"skipped"`
}

// Len returns the number of pairs.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Pairs)
}

// Empty reports whether the table has no pairs. An empty table means
// abbreviation is unavailable, not that nothing matched.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Lookup finds the first pair whose full or short form equals name. Braces
// around name are optional.
func (t *Table) Lookup(name string) (Pair, bool) {
	if t == nil {
		return Pair{}, false
	}
	target := wrap(strings.Trim(strings.TrimSpace(name), "{}"))
	for _, p := range t.Pairs {
		if p.Full == target || p.Short == target {
			return p, true
		}
	}
	return Pair{}, false
}

// ParseTable builds a table from decoded text.
func ParseTable(text string) *Table {
	t := &Table{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if !strings.Contains(line, Delimiter) {
			continue
		}
		parts := strings.Split(strings.TrimSpace(line), Delimiter)
		if len(parts) < 2 {
			continue
		}
		full, short := parts[0], parts[1]
		if !qualifies(full) {
			t.Skipped++
			continue
		}
		t.Pairs = append(t.Pairs, Pair{Full: wrap(full), Short: wrap(short)})
	}
	return t
}

// LoadTable reads and parses the table at path. A missing file yields an
// empty table and no error; callers check Empty to report that abbreviation
// is unavailable.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Table{Source: path}, nil
		}
		return nil, fmt.Errorf("failed to read abbreviation table %s: %w", path, err)
	}

	text, enc, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrTableDecode, path, err)
	}

	t := ParseTable(text)
	t.Source = path
	t.Encoding = enc
	t.Digest = hash.Bytes(raw)
	return t, nil
}

// decode tries UTF-8 first and falls back to ISO-8859-1.
func decode(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return string(bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))), EncodingUTF8, nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", "", err
	}
	return string(out), EncodingLatin1, nil
}

// qualifies rejects acronyms and single-word names.
func qualifies(full string) bool {
	return strings.Contains(full, " ") && full != strings.ToUpper(full)
}

func wrap(s string) string {
	return "{" + s + "}"
}
