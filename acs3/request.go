package acs3

import (
	"fmt"
	"net/url"
	"strings"
)

// SigningRequest is the input of a single signing operation.
type SigningRequest struct {
	// HTTP verb, upper case.
	Method string
	// Absolute URL path starting with "/", without query string or host.
	Path string
	// Optional query parameters. Nil for the common case of a bare POST.
	Query url.Values
	// Header names are matched case-insensitively. `host` is mandatory.
	Headers map[string]string
	// Raw request body. Nil and empty both hash as the empty string.
	Body []byte
}

func (r *SigningRequest) validate() error {
	if r == nil {
		return fmt.Errorf("%w: request is nil", ErrMalformedRequest)
	}
	if strings.TrimSpace(r.Method) == "" {
		return fmt.Errorf("%w: method is empty", ErrMalformedRequest)
	}
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("%w: path %q is not absolute", ErrMalformedRequest, r.Path)
	}
	if strings.ContainsRune(r.Path, '?') {
		return fmt.Errorf("%w: path %q contains a query string, use Query instead", ErrMalformedRequest, r.Path)
	}
	if !hasHeader(r.Headers, HeaderHost) {
		return fmt.Errorf("%w: missing %q header", ErrMalformedRequest, HeaderHost)
	}
	return nil
}

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
