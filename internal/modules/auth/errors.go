package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrPasswordPolicy     = errors.New("password does not meet requirements")
)
