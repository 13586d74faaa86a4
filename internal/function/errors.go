package function

import "errors"

// Domain errors for the function package.
var (
	// ErrUnknownType is returned when a setup record names an unregistered type.
	ErrUnknownType = errors.New("function: unknown type")

	// ErrInvalidSetup is returned when a setup record lacks required keys or
	// carries values of the wrong type.
	ErrInvalidSetup = errors.New("function: invalid setup")

	// ErrTypeExists is returned when registering a type name twice.
	ErrTypeExists = errors.New("function: type already registered")
)
