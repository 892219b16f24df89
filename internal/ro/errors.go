package ro

import "errors"

// Error categories. Wrap them with fmt.Errorf("...: %w", Err...) so callers
// can match with errors.Is.
var (
	// ErrNotFound is returned when a reference matches no object.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a name matches more than one object.
	ErrAmbiguous = errors.New("ambiguous name")
	// ErrConflict is returned when an object with the same id already exists.
	ErrConflict = errors.New("already registered")
	// ErrValidation is returned for malformed definitions.
	ErrValidation = errors.New("invalid definition")
)
