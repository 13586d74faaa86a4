package handler

import "errors"

var (
	// ErrUnknownResult is returned when parsing an unrecognised result name.
	ErrUnknownResult = errors.New("handler: unknown result")

	// ErrUnknownCommand is returned by ParseCommand for unrecognised commands.
	ErrUnknownCommand = errors.New("handler: unknown command")
)
