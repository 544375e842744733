package models

import "errors"

var (
	// ErrExcessiveMines is returned when more mines are requested than the board can hold.
	ErrExcessiveMines = errors.New("excessive mines")
	// ErrInvalidCoordinates is returned for x/y outside the grid.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrIndexOutOfBounds is returned when a linear square index is outside the grid.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	// ErrInvalidCascade is returned when a cascade starts on a mined, flagged or numbered square.
	ErrInvalidCascade = errors.New("invalid cascade")
	// ErrUnknownPlayMode is returned by Play for a mode it does not route.
	ErrUnknownPlayMode = errors.New("unknown play mode")
)
