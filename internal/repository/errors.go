package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrIDExhausted is returned when no unused identifier could be generated.
var ErrIDExhausted = errors.New("could not generate a unique id")
