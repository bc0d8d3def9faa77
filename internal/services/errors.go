package services

import "errors"

var (
	ErrEmailInUse         = errors.New("email in use")
	ErrInvalidCredentials = errors.New("email or password is wrong")
	ErrNotVerified        = errors.New("email is not verified")
	ErrAlreadyVerified    = errors.New("verification has already been passed")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrUserNotFound       = errors.New("user not found")
)
