package auth

import "errors"

var (
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("username is already taken")
	ErrInvalidInput = errors.New("auth: invalid input")
	ErrUnauthorized = errors.New("invalid username or password")
	ErrInvalidToken = errors.New("invalid or expired token")
)
