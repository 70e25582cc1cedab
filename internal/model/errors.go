package model

import "errors"

// Common errors used across the application
var (
	// Input and identity errors
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicateIdentity = errors.New("username or phone number already in use")
	ErrInvalidCode       = errors.New("verification code invalid or expired")

	// Authorization errors
	ErrForbidden = errors.New("admin privileges required")

	// Lookup errors
	ErrUserNotFound = errors.New("user not found")
	ErrGameNotFound = errors.New("game not found")

	// Catalog errors
	ErrDuplicateSlug = errors.New("game slug already exists")
)
