package services

import (
	"errors"
	"fmt"
)

// Service-layer error kinds. Handlers translate these into HTTP statuses:
// validation failures map to 400, credential failures to 401, token failures
// to 403. Not-found and conflict conditions travel up from the repositories
// package unchanged.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidDuration marks a duration value that is present but cannot
	// be normalized to seconds. It is a validation failure.
	ErrInvalidDuration = fmt.Errorf("%w: malformed duration", ErrValidation)

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers every token verification failure: bad
	// signature, malformed token, expiry. The sub-causes are intentionally
	// indistinguishable.
	ErrInvalidToken = errors.New("invalid token")
)
