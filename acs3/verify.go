package acs3

import (
	"context"
	"crypto/hmac"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Verifier checks ACS3 signatures on the receiving side. It implements auth.Verifier.
type Verifier struct {
	secrets SecretProvider
	// Zero disables the `x-acs-date` freshness check.
	maxSkew time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithMaxClockSkew rejects requests whose `x-acs-date` is further than d from the verifier's clock.
func WithMaxClockSkew(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.maxSkew = d
	}
}

func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

func WithVerifierLogger(logger *slog.Logger) VerifierOption {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Constructor to create Verifier Object
func NewVerifier(secrets SecretProvider, opts ...VerifierOption) (*Verifier, error) {
	if secrets == nil {
		return nil, fmt.Errorf("%w: secret provider", ErrMissingCredentials)
	}
	v := &Verifier{
		secrets: secrets,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, fn := range opts {
		fn(v)
	}
	return v, nil
}

// Verify the signature on the server
func (v *Verifier) VerifySignature(req *http.Request) error {
	if req == nil || req.URL == nil {
		return fmt.Errorf("%w: request is nil", ErrMalformedRequest)
	}
	body, err := readBody(req)
	if err != nil {
		return err
	}
	return v.Verify(req.Context(), req.Header.Get(HeaderAuthorization), signingRequestFromHTTP(req, body))
}

// Verify checks authorization against the request it claims to sign.
//
// The signed header list must equal the selection the signer would make from req: a header that
// matches the selection rules but was left unsigned is rejected, as is a listed header that is absent.
func (v *Verifier) Verify(ctx context.Context, authorization string, req *SigningRequest) error {
	authHeaders, err := ParseAuthorization(authorization)
	if err != nil {
		return err
	}
	if authHeaders.Algorithm != Algorithm {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, authHeaders.Algorithm)
	}
	if err := req.validate(); err != nil {
		return err
	}

	selected, err := selectHeaders(req.Headers)
	if err != nil {
		return err
	}
	_, signedHeaders := canonicalAndSignedHeaders(selected)
	if claimed := strings.Join(authHeaders.SignedHeaders, ";"); claimed != signedHeaders {
		return fmt.Errorf("%w: signed headers %q, request carries %q", ErrSignatureMismatch, claimed, signedHeaders)
	}

	if v.maxSkew > 0 {
		if err := v.checkDate(selected); err != nil {
			return err
		}
	}

	secret, err := v.secrets.Secret(ctx, authHeaders.AccessKeyID)
	if err != nil {
		return fmt.Errorf("retrieve secret: %w", err)
	}
	if secret == "" {
		return fmt.Errorf("%w: empty secret for %q", ErrMissingCredentials, authHeaders.AccessKeyID)
	}

	result, err := computeSignature(authHeaders.AccessKeyID, secret, req)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(result.Signature), []byte(strings.ToLower(authHeaders.Signature))) {
		v.logger.Warn("signature mismatch",
			slog.String("access_key_id", authHeaders.AccessKeyID),
			slog.String("signed_headers", signedHeaders),
		)
		return ErrSignatureMismatch
	}
	return nil
}

func (v *Verifier) checkDate(selected []canonicalHeader) error {
	var date string
	for _, h := range selected {
		if h.name == HeaderDate {
			date = h.value
			break
		}
	}
	if date == "" {
		return fmt.Errorf("%w: missing %q header", ErrRequestExpired, HeaderDate)
	}
	ts, err := time.Parse(TimeFormat, date)
	if err != nil {
		return fmt.Errorf("%w: invalid %q: %v", ErrRequestExpired, HeaderDate, err)
	}
	skew := v.now().UTC().Sub(ts)
	if skew < 0 {
		skew = -skew
	}
	if skew > v.maxSkew {
		return fmt.Errorf("%w: %s", ErrRequestExpired, skew)
	}
	return nil
}
