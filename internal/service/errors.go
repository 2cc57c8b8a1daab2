package service

import "errors"

// ErrInvalidInput is wrapped with a field-specific message when a request
// fails validation.
var ErrInvalidInput = errors.New("invalid input")
