package engine

import (
	"github.com/danieljhkim/bibtidy/internal/abbrev"
)

// Table returns the abbreviation table at path, or the configured table when
// path is empty. Tables are cached for the lifetime of the engine's loader.
func (e *Engine) Table(path string) (*abbrev.Table, error) {
	if path == "" {
		path = e.settings.TablePath
	}
	return e.loader.Load(path)
}

// LookupRequest asks for the abbreviation of one journal name.
type LookupRequest struct {
	// TablePath overrides the configured abbreviation table
	TablePath string

	// Name is a full or abbreviated journal name, braces optional
	Name string
}

// LookupResult is the outcome of Lookup.
type LookupResult struct {
	Table *TableInfo   `json:"table"`
	Found bool         `json:"found"`
	Pair  *abbrev.Pair `json:"pair,omitempty"`
}

// Lookup finds a journal name in the table.
func (e *Engine) Lookup(req *LookupRequest) (*LookupResult, error) {
	table, err := e.Table(req.TablePath)
	if err != nil {
		return nil, err
	}
	res := &LookupResult{Table: DescribeTable(table)}
	if p, ok := table.Lookup(req.Name); ok {
		res.Found = true
		res.Pair = &p
	}
	return res, nil
}
