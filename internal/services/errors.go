package services

import "errors"

// Business errors returned verbatim to the HTTP layer, which maps them onto
// status codes. Anything not in this set (or the model store errors) is an
// internal failure and must not leak details to the caller.
var (
	ErrValidation            = errors.New("validation error")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAccountDeactivated    = errors.New("account has been deactivated")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrAlreadyVerified       = errors.New("email is already verified")
)
