package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrOriginForbidden occurs when a mutating request declares an unknown origin.
	ErrOriginForbidden = errors.New("origin not allowed")
	// ErrSessionExpired occurs when the presented session is past its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnknownRole occurs when a user record carries a role outside the closed set.
	ErrUnknownRole = errors.New("unknown role")
)
