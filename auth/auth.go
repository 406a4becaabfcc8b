package auth

import "net/http"

// Signer interface to be implemented by any signing mechanism.
type Signer interface {
	// SignHTTPRequest sets the `Authorization` header, plus any headers the scheme requires, on req.
	SignHTTPRequest(req *http.Request) error
}

// Verifier interface to be implemented by any verification mechanism.
type Verifier interface {
	VerifySignature(req *http.Request) error
}
