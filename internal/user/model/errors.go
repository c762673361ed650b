package model

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken indicates that an account with the email already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a wrong email or password on sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken indicates an unknown, used or expired email token.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnauthenticated indicates a bearer token that does not map to a live session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidRequest indicates a request that failed validation.
	ErrInvalidRequest = errors.New("invalid request")
)
