package service

import "errors"

var (
	// ErrUnauthorized covers every credential failure: unknown email,
	// wrong password, bad/expired/revoked token, stale refresh reuse.
	// Callers must not be able to tell these apart.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a refresh token that passed signature checks but
	// failed the stored-record match.
	ErrForbidden = errors.New("forbidden")

	ErrEmailInUse = errors.New("email already in use")
)
