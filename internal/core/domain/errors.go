package domain

import "errors"

// Sentinel errors for form operations.
var (
	// ErrValidation indicates a required field is missing or empty.
	// HTTP Status: 400 Bad Request
	ErrValidation = errors.New("all fields are required")

	// ErrFormNotFound indicates no form matches the given identifier.
	// HTTP Status: 404 Not Found
	ErrFormNotFound = errors.New("form not found")
)
