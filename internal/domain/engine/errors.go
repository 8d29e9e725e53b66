package engine

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrOrderingViolation = errors.New("games out of chronological order")
	ErrDuplicateGame     = errors.New("game already processed")
)
