package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Construction / argument errors
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNoPrimaryResearcher = fmt.Errorf("%w: primary researcher unset", ErrInvalidArgument)
	ErrNoField             = fmt.Errorf("%w: science field unset", ErrInvalidArgument)
	ErrNegativeDifficulty  = fmt.Errorf("%w: negative difficulty", ErrInvalidArgument)
	ErrNotTerminalOutcome  = fmt.Errorf("%w: outcome is not a terminal phase", ErrInvalidArgument)

	// Lookup errors
	ErrNotFound         = errors.New("resource not found")
	ErrStudyNotFound    = fmt.Errorf("%w: study", ErrNotFound)
	ErrNotACollaborator = errors.New("participant is not a collaborator")

	// Lifecycle errors
	ErrStudyComplete = errors.New("study already reached a terminal phase")
)

// IsInvalidArgument checks if an error stems from malformed input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotFoundError checks if an error is a not-found condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NewNotFoundError builds a not-found error with context.
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}
