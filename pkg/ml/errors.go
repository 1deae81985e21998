package ml

import "errors"

var (
	// ErrInvalidArgument marks out-of-range parameters, e.g. a fold count
	// below 2 or above the sample count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLengthMismatch marks feature/label slices of different lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrEmptyDataset marks an attempt to fit or evaluate on zero samples.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrNotFitted marks a transform or predict call before fitting.
	ErrNotFitted = errors.New("model not fitted")
)
