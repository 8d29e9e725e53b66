package repository

import "errors"

// Sentinel kinds for rating store errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidLimit  = errors.New("invalid rankings limit")
	ErrInvalidRating = errors.New("rating is not finite")
	ErrStaleSeason   = errors.New("season precedes committed rating")
)
