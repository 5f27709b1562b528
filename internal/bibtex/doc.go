// Package bibtex splits BibTeX text into entries and resolves url/doi field
// conflicts inside them.
//
// The package works on raw text with line and substring heuristics. It does
// not parse field syntax or balance braces: an entry is whatever lies between
// one "\n@" boundary and the next.
package bibtex
