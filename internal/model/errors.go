package model

import "errors"

var (
	// ErrNotFound is returned by stores when no live row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned by user stores on a uniqueness violation.
	ErrDuplicateEmail = errors.New("duplicate email")

	ErrNoSuchUser      = errors.New("no such user")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)
