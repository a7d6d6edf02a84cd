package shortener

import "errors"

var (
	// ErrInvalidURL is returned when a target URL is malformed, uses a
	// disallowed scheme, or points at a denylisted host.
	ErrInvalidURL = errors.New("invalid or disallowed url")
	// ErrInvalidCode is returned when a custom short code fails the format
	// or reserved-word rules.
	ErrInvalidCode = errors.New("invalid short code format")
	// ErrCodeTaken is returned when a custom short code already has a value
	// in the store, expired or not.
	ErrCodeTaken = errors.New("short code already taken")
	// ErrGenerationExhausted is returned when random code generation keeps
	// colliding past the retry budget.
	ErrGenerationExhausted = errors.New("exhausted retries generating a unique short code")
	// ErrURLNotFound is returned when no record exists at a short code.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned on redirect when the record exists but is
	// past its expiry.
	ErrURLExpired = errors.New("url expired")
)
