package core

import "errors"

var (
	// ErrInvalidInput is returned when a request payload fails validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMessage is returned when a sign-in message cannot be parsed
	ErrInvalidMessage = errors.New("invalid siwe message")

	// ErrInvalidAddress is returned when an address is not a valid Ethereum address
	ErrInvalidAddress = errors.New("invalid ethereum address")

	// ErrUserNotFound is returned when no identity exists for an address or id
	ErrUserNotFound = errors.New("user not found")

	// ErrNonceMismatch is returned when a sign-in presents a stale challenge nonce
	ErrNonceMismatch = errors.New("nonce mismatch")

	// ErrSignatureInvalid is returned when signature verification fails
	ErrSignatureInvalid = errors.New("invalid signature")

	// ErrRefreshInvalid is returned when a refresh token is expired, malformed,
	// or no longer the one held in the session store
	ErrRefreshInvalid = errors.New("invalid refresh token")

	// ErrUnauthorized is returned when an access token fails the access guard
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionNotFound is returned when no session entry exists for a key
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable is returned when an underlying store cannot be reached
	ErrStoreUnavailable = errors.New("store unavailable")
)
