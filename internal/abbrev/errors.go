package abbrev

import "errors"

var (
	// ErrTableUnavailable is returned by Substitute when the table has no
	// usable pairs, typically because the table file does not exist.
	ErrTableUnavailable = errors.New("abbreviation table unavailable")

	// ErrTableDecode is returned when a table file cannot be decoded as
	// UTF-8 or ISO-8859-1.
	ErrTableDecode = errors.New("failed to decode abbreviation table")
)
