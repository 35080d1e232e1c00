package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the expected failure modes of the core. Callers branch
// with errors.Is; the HTTP layer maps them onto status codes. Only programmer
// errors surface as anything else.
var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ErrInvalidType and ErrEmptyTitle refine ErrValidation so tests and callers
// can still distinguish them.
var (
	ErrInvalidType = fmt.Errorf("%w: unknown submission type", ErrValidation)
	ErrEmptyTitle  = fmt.Errorf("%w: title is required", ErrValidation)
)
