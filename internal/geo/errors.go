package geo

import "errors"

// ErrInvalidTime is returned by ParseHHMM when its input is not a
// well-formed "HH:MM" string. Callers at the service boundary wrap it
// into apperr.InvalidInput.
var ErrInvalidTime = errors.New("malformed HH:MM time")
