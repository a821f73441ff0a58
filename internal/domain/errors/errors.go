package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrConflict           = ErrAlreadyExists
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrUnavailable        = errors.New("storage unavailable")
)
