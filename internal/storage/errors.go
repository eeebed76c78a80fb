package storage

import "errors"

// ErrInvalidInput is returned when a store is asked for something it cannot
// express, such as an out-of-range pool slot.
var ErrInvalidInput = errors.New("invalid input")
