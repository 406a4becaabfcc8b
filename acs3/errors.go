package acs3

import "errors"

// Errors
var (
	// ErrMissingCredentials is returned when the access key id or secret is empty. No signature is
	// ever computed against an empty key.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrMalformedRequest is returned for input that would hash inconsistently on the receiving side.
	ErrMalformedRequest = errors.New("malformed request")

	ErrInvalidAuthorization = errors.New("incorrectly formatted Authorization header")
	ErrUnsupportedAlgorithm = errors.New("incorrect algorithm found")
	ErrSignatureMismatch    = errors.New("computed signature does not match received signature")
	ErrRequestExpired       = errors.New("request timestamp outside allowed clock skew")
	ErrUnknownAccessKey     = errors.New("unknown access key")
)
