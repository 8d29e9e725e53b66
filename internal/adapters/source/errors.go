package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrReadSource = errors.New("read source")
	ErrParseRow   = errors.New("parse row")
)
