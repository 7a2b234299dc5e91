// Package common defines sentinel errors shared by the repositories,
// services and the HTTP layer. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Account lifecycle errors.
	ErrIncorrectPassword = errors.New("password is incorrect")
	ErrAlreadyConfirmed  = errors.New("account is already confirmed")
	ErrDelivery          = errors.New("email delivery failed")

	// Task errors.
	ErrInvalidID = errors.New("invalid id")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
