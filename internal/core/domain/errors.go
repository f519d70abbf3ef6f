package domain

import "errors"

var (
	// ErrValidation marks malformed input: unknown role, empty fields, negative prices.
	ErrValidation = errors.New("validation failed")

	// ErrUserExists is returned when a username is already registered.
	ErrUserExists = errors.New("user already exists")

	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")

	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")

	// ErrForbidden means the caller is authenticated but its role does not
	// allow the operation.
	ErrForbidden = errors.New("access forbidden")
)
