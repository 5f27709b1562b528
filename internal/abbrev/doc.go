// Package abbrev loads journal abbreviation tables and rewrites full journal
// names to their abbreviations.
//
// A table file holds one mapping per line in the form
//
//	Journal of Applied Physics = J. Appl. Phys.
//
// Both sides are wrapped in braces when loaded, so substitution only touches
// brace-delimited field values such as journal={Journal of Applied Physics}.
// Tables are immutable once loaded and may be shared between goroutines.
package abbrev
