package model

import "errors"

// ErrMalformedGame marks a record that violates the game schema.
var ErrMalformedGame = errors.New("malformed game record")
