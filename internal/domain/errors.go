package domain

import "errors"

// Error taxonomy surfaced by every layer. Repositories translate driver
// errors into these sentinels; the HTTP adapter maps them to status codes.
var (
	// Not-found errors
	ErrUserNotFound        = errors.New("user not found")
	ErrCurrencyNotFound    = errors.New("currency not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTagNotFound         = errors.New("tag not found")

	// ErrValidation marks malformed input (bad amount, missing field).
	ErrValidation = errors.New("validation failed")

	// ErrConstraintViolation marks uniqueness or foreign-key violations.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrPermissionDenied marks a failed ownership check.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConcurrencyConflict marks a store-level serialization failure.
	// Callers retry the whole read-then-compute sequence, never just the
	// aggregation step.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

// Authentication errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
