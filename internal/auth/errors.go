package auth

import "errors"

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotAuthenticated     = errors.New("no authenticated principal")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrDuplicateAccount     = errors.New("account already exists")
	ErrAccountNotFound      = errors.New("account not found")
	ErrWeakPassword         = errors.New("password too short")
)
