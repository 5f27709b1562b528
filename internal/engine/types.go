package engine

import (
	"time"

	"github.com/danieljhkim/bibtidy/internal/abbrev"
)

// Stage names used in LogEntry.
const (
	StageClean  = "clean"
	StageAbbrev = "abbrev"
)

// ProcessRequest represents a request to process one reference file.
type ProcessRequest struct {
	// InputPath is the reference file to read
	InputPath string

	// OutputPath overrides the derived <prefix><name> output path
	OutputPath string

	// OutputPrefix overrides the configured prefix (ignored when OutputPath is set)
	OutputPrefix string

	// TablePath overrides the configured abbreviation table
	TablePath string

	// Abbreviate enables journal name substitution
	Abbreviate bool

	// CleanConflicts enables removal of doi fields from entries that have a url
	CleanConflicts bool

	// DryRun processes the file without writing output
	DryRun bool

	// Progress receives substitution progress; may be nil
	Progress abbrev.Progress
}

// LogEntry is one line of the change log.
type LogEntry struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`

	// Error marks lines the user should notice, such as a missing table.
	Error bool `json:"error,omitempty"`
}

// TableInfo describes the abbreviation table used by a run.
type TableInfo struct {
	Source   string `json:"source"`
	Pairs    int    `json:"pairs"`
	Skipped  int    `json:"skipped"`
	Encoding string `json:"encoding,omitempty"`
	Digest   string `json:"digest,omitempty"`
}

// DescribeTable summarizes a loaded table.
func DescribeTable(t *abbrev.Table) *TableInfo {
	return &TableInfo{
		Source:   t.Source,
		Pairs:    t.Len(),
		Skipped:  t.Skipped,
		Encoding: t.Encoding,
		Digest:   t.Digest,
	}
}

// ProcessResult represents the outcome of processing one reference file.
type ProcessResult struct {
	InputPath  string `json:"input"`
	OutputPath string `json:"output"`

	// Written is false for dry runs and when the output was already up to date
	Written bool `json:"written"`

	// UpToDate is set when the existing output already matched the result
	UpToDate bool `json:"up_to_date"`

	// Entries is the number of segments found in the input
	Entries int `json:"entries"`

	// ConflictsResolved counts entries that lost at least one doi line
	ConflictsResolved int `json:"conflicts_resolved"`

	// DOILinesRemoved counts removed doi lines across all entries
	DOILinesRemoved int `json:"doi_lines_removed"`

	Replacements []abbrev.Replacement `json:"replacements"`

	// Occurrences sums the replaced journal names
	Occurrences int `json:"occurrences"`

	// TableUnavailable is set when abbreviation was requested but the table
	// had no pairs; cleaning still ran
	TableUnavailable bool `json:"table_unavailable"`

	Table *TableInfo `json:"table,omitempty"`

	Log []LogEntry `json:"log"`

	InputDigest  string `json:"input_digest"`
	OutputDigest string `json:"output_digest"`

	// Changed reports whether the output differs from the input
	Changed bool `json:"changed"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`

	// Text is the processed buffer
	Text string `json:"-"`
}

func (r *ProcessResult) addLog(stage string, isErr bool, msg string) {
	r.Log = append(r.Log, LogEntry{Stage: stage, Message: msg, Error: isErr})
}
