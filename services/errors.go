package services

import "errors"

// Shared service errors, mapped to HTTP statuses in the handlers package.
var (
	// Not found
	ErrNotFound       = errors.New("requested resource not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrOfficeNotFound = errors.New("office not found")
	ErrMatchNotFound  = errors.New("match not found")
	ErrSeasonNotFound = errors.New("season not found")
	ErrPlayerNotFound = errors.New("player not found")

	// Validation and business rules
	ErrValidationFailed = errors.New("validation failed")
	// ErrInvalidRoster covers bad team sizes, unknown or duplicate player
	// ids, and unclaimed guests. Not retryable without different input.
	ErrInvalidRoster = errors.New("invalid match roster")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrUnauthorized           = errors.New("authentication required")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// ErrTransferFailed means the point-transfer transaction could not be
	// committed and was fully rolled back; no match was recorded. Transient
	// contention is the usual cause, so callers may retry.
	ErrTransferFailed = errors.New("point transfer could not be committed")
)
