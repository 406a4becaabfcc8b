package acs3

import (
	"fmt"
	"strings"

	"github.com/jayantasamaddar/go-acssigner/utils"
)

// (3) Calculate the signature: one HMAC-SHA256 round keyed directly by the secret.
func generateSignature(secret, stringToSign string) (string, error) {
	return utils.HexHmacSHA256([]byte(secret), stringToSign)
}

// All components that make up the `Authorization` header
type AuthHeaders struct {
	Algorithm     string
	AccessKeyID   string
	SignedHeaders []string
	Signature     string
}

// `fmt.Stringer` implementation
func (h *AuthHeaders) String() string {
	return fmt.Sprintf("%s Credential=%s,SignedHeaders=%s,Signature=%s",
		h.Algorithm,
		h.AccessKeyID,
		strings.Join(h.SignedHeaders, ";"),
		h.Signature,
	)
}

// ParseAuthorization splits an `Authorization` header value back into its parts.
//
// The three fields are expected in the order this package writes them. Optional whitespace after
// the commas is tolerated.
func ParseAuthorization(str string) (*AuthHeaders, error) {
	algorithm, rest, ok := strings.Cut(strings.TrimSpace(str), " ")
	if !ok || algorithm == "" {
		return nil, ErrInvalidAuthorization
	}

	parts := strings.Split(rest, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrInvalidAuthorization, len(parts))
	}

	authHeaders := &AuthHeaders{Algorithm: algorithm}
	for i, field := range []string{"Credential", "SignedHeaders", "Signature"} {
		name, value, ok := strings.Cut(strings.TrimSpace(parts[i]), "=")
		if !ok || name != field {
			return nil, fmt.Errorf("%w: header name %q incorrect", ErrInvalidAuthorization, field)
		}
		if value == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrInvalidAuthorization, field)
		}
		switch field {
		case "Credential":
			authHeaders.AccessKeyID = value
		case "SignedHeaders":
			authHeaders.SignedHeaders = strings.Split(value, ";")
		case "Signature":
			authHeaders.Signature = value
		}
	}
	return authHeaders, nil
}
