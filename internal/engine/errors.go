package engine

import "errors"

var (
	// ErrNoInput indicates no input file was given.
	ErrNoInput = errors.New("no input file given")

	// ErrNoStages indicates both processing stages were disabled.
	ErrNoStages = errors.New("nothing to do: abbreviation and doi cleaning are both disabled")

	// ErrOverwriteInput indicates the output path resolves to the input file.
	ErrOverwriteInput = errors.New("output path would overwrite the input file")
)
