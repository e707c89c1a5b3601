// Package apperr defines the error taxonomy shared across domains. Every
// business failure surfaces to the caller wrapped around one of these
// sentinels (or a typed error such as authz.ForbiddenError), never as a
// generic failure.
package apperr

import "errors"

var (
	// ErrUnauthenticated means the request carried no valid identity token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInactiveUser means the token was valid but the user is deactivated.
	ErrInactiveUser = errors.New("user is deactivated")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a uniqueness constraint was violated on create.
	ErrConflict = errors.New("record already exists")

	// ErrInvalidInput means the request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
