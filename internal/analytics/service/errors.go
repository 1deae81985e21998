package service

import "errors"

var (
	// ErrInvalidArgument marks malformed requests, e.g. a bad date range.
	// Fails fast; no retry, no partial state mutated.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientData marks a prediction request whose joined feature
	// matrix has too few samples to train on.
	ErrInsufficientData = errors.New("insufficient data")
)
