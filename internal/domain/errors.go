package domain

import "errors"

// Sentinel errors for classifying remote API failures.
// The request pipeline's structured error matches these via errors.Is so
// commands can branch on a category without inspecting status codes.
//
//	if errors.Is(err, domain.ErrNotFound) { ... }
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the API throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as
	// a duplicate email or an action on a server in a transitional state.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates the API rejected the payload with
	// field-level messages.
	ErrValidation = errors.New("validation failed")
)
