package session

import "errors"

var (
	// ErrWrongPassword indicates the shared password did not match.
	ErrWrongPassword = errors.New("session: incorrect password")

	// ErrInvalidToken indicates an unparseable or expired session token.
	ErrInvalidToken = errors.New("session: invalid token")
)
