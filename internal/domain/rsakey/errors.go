package rsakey

import "errors"

// ErrInvalidKey is returned when key parameters are missing, inconsistent, or required by an operation but unset.
var ErrInvalidKey = errors.New("rsakey: invalid key")
