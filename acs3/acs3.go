package acs3

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jayantasamaddar/go-acssigner/credentials"
	"github.com/jayantasamaddar/go-acssigner/utils"
)

const (
	// Algorithm identifies the signature scheme in the string to sign and the Authorization header.
	Algorithm = "ACS3-HMAC-SHA256"
	// TimeFormat is ISO 8601 in UTC without the millisecond component, as expected in `x-acs-date`.
	TimeFormat = "2006-01-02T15:04:05Z"
)

// ACS3 signs requests with a fixed access key pair. It holds no mutable state and is safe for
// concurrent use.
type ACS3 struct {
	credentials credentials.Credentials
	// When set, `x-acs-content-sha256` carrying the hashed payload is added by BuildHeaders and SignHTTPRequest.
	hashPayload bool
	now         func() time.Time
	nonce       func() string
	logger      *slog.Logger
}

// Option configures an ACS3 signer.
type Option func(*ACS3)

// WithHashPayload adds the `x-acs-content-sha256` header to built requests.
func WithHashPayload(enabled bool) Option {
	return func(s *ACS3) {
		s.hashPayload = enabled
	}
}

// WithClock replaces the wall clock used for `x-acs-date`.
func WithClock(now func() time.Time) Option {
	return func(s *ACS3) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNonceFunc replaces the `x-acs-signature-nonce` generator.
func WithNonceFunc(nonce func() string) Option {
	return func(s *ACS3) {
		if nonce != nil {
			s.nonce = nonce
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *ACS3) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Constructor to create a Signer Object. Credentials are passed in explicitly; see
// credentials.Load for resolving them from the environment or a profile directory.
func NewACS3Signer(cred credentials.Credentials, opts ...Option) (*ACS3, error) {
	if !cred.HasKeys() {
		return nil, fmt.Errorf("%w: access key id and secret are mandatory", ErrMissingCredentials)
	}
	s := &ACS3{
		credentials: cred,
		now:         time.Now,
		nonce:       uuid.NewString,
		logger:      slog.Default(),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s, nil
}

// AccessKeyID returns the public half of the key pair.
func (s *ACS3) AccessKeyID() string {
	return s.credentials.AccessKeyID
}

// Result carries every value derived while signing. Only Authorization is sent on the wire; the
// rest is exposed for debugging and tests.
type Result struct {
	CanonicalHeaders string
	SignedHeaders    string
	HashedPayload    string
	CanonicalRequest string
	StringToSign     string
	Signature        string
	Authorization    string
}

// Sign computes the credential for req. It is a pure function of req and the signer's key pair:
// identical input always yields an identical Result.
func (s *ACS3) Sign(req *SigningRequest) (*Result, error) {
	if s == nil || !s.credentials.HasKeys() {
		return nil, fmt.Errorf("%w: signer has no key pair", ErrMissingCredentials)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	return computeSignature(s.credentials.AccessKeyID, s.credentials.AccessKeySecret, req)
}

func computeSignature(accessKeyID, secret string, req *SigningRequest) (*Result, error) {
	selected, err := selectHeaders(req.Headers)
	if err != nil {
		return nil, err
	}
	r := &Result{HashedPayload: utils.Hash(req.Body)}
	r.CanonicalHeaders, r.SignedHeaders = canonicalAndSignedHeaders(selected)
	r.CanonicalRequest = canonicalRequest(
		req.Method,
		req.Path,
		canonicalQueryString(req.Query),
		r.CanonicalHeaders,
		r.SignedHeaders,
		r.HashedPayload,
	)
	r.StringToSign = stringToSign(r.CanonicalRequest)

	r.Signature, err = generateSignature(secret, r.StringToSign)
	if err != nil {
		return nil, err
	}

	authHeaders := AuthHeaders{
		Algorithm:     Algorithm,
		AccessKeyID:   accessKeyID,
		SignedHeaders: strings.Split(r.SignedHeaders, ";"),
		Signature:     r.Signature,
	}
	r.Authorization = authHeaders.String()
	return r, nil
}

// HeaderParams describes one API call for BuildHeaders.
type HeaderParams struct {
	Method string
	Host   string
	Path   string
	Query  url.Values
	// API operation and version, sent as `x-acs-action` and `x-acs-version`.
	Action  string
	Version string
	// Falls back to a content type among Headers, then "application/json".
	ContentType string
	Body        []byte
	// Extra headers to send. Those matching the selection rules are signed too.
	Headers map[string]string
}

// BuildHeaders assembles the complete header set for one call: host, content type, action,
// version, a fresh timestamp and nonce, then signs it and adds `Authorization`.
func (s *ACS3) BuildHeaders(p HeaderParams) (map[string]string, error) {
	if strings.TrimSpace(p.Host) == "" {
		return nil, fmt.Errorf("%w: missing %q header", ErrMalformedRequest, HeaderHost)
	}
	headers := make(map[string]string, len(p.Headers)+8)
	for k, v := range p.Headers {
		headers[k] = v
	}
	contentType := p.ContentType
	if contentType == "" {
		for k, v := range headers {
			if strings.EqualFold(k, HeaderContentType) {
				contentType = v
			}
		}
	}
	if contentType == "" {
		contentType = "application/json"
	}
	set := func(name, value string) {
		for k := range headers {
			if strings.EqualFold(k, name) {
				delete(headers, k)
			}
		}
		headers[name] = value
	}
	set(HeaderHost, p.Host)
	set(HeaderContentType, contentType)
	if p.Action != "" {
		set(HeaderAction, p.Action)
	}
	if p.Version != "" {
		set(HeaderVersion, p.Version)
	}
	set(HeaderDate, s.now().UTC().Format(TimeFormat))
	set(HeaderNonce, s.nonce())
	if s.hashPayload {
		set(HeaderContentSHA256, utils.Hash(p.Body))
	}

	method := p.Method
	if method == "" {
		method = http.MethodPost
	}
	result, err := s.Sign(&SigningRequest{
		Method:  method,
		Path:    p.Path,
		Query:   p.Query,
		Headers: headers,
		Body:    p.Body,
	})
	if err != nil {
		return nil, err
	}
	headers[HeaderAuthorization] = result.Authorization

	s.logger.Debug("signed request",
		slog.String("action", p.Action),
		slog.String("path", p.Path),
		slog.String("signed_headers", result.SignedHeaders),
	)
	return headers, nil
}

// (5) Takes in a pointer to a http.Request and adds the Signature to the Authorization Header.
//
// Missing `x-acs-date` and `x-acs-signature-nonce` headers are generated. The body is read and
// replaced with an in-memory copy so the request can still be sent.
func (s *ACS3) SignHTTPRequest(req *http.Request) error {
	if req == nil || req.URL == nil {
		return fmt.Errorf("%w: request is nil", ErrMalformedRequest)
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}

	body, err := readBody(req)
	if err != nil {
		return err
	}

	if req.Header.Get(HeaderDate) == "" {
		req.Header.Set(HeaderDate, s.now().UTC().Format(TimeFormat))
	}
	if req.Header.Get(HeaderNonce) == "" {
		req.Header.Set(HeaderNonce, s.nonce())
	}
	if s.hashPayload && req.Header.Get(HeaderContentSHA256) == "" {
		req.Header.Set(HeaderContentSHA256, utils.Hash(body))
	}
	req.Header.Del(HeaderAuthorization)

	signingReq := signingRequestFromHTTP(req, body)
	result, err := s.Sign(signingReq)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderAuthorization, result.Authorization)

	s.logger.Debug("signed http request",
		slog.String("method", req.Method),
		slog.String("path", signingReq.Path),
		slog.String("signed_headers", result.SignedHeaders),
	)
	return nil
}

// readBody drains req.Body and puts back a re-readable copy.
func readBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	req.ContentLength = int64(len(body))
	return body, nil
}

// signingRequestFromHTTP maps a net/http request onto the signer's input. Multiple values of one
// header are joined with ",". Host comes from req.Host, falling back to the URL.
func signingRequestFromHTTP(req *http.Request, body []byte) *SigningRequest {
	headers := make(map[string]string, len(req.Header)+1)
	for key, values := range req.Header {
		if strings.EqualFold(key, HeaderHost) {
			continue
		}
		headers[strings.ToLower(key)] = strings.Join(values, ",")
	}
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	if host != "" {
		headers[HeaderHost] = host
	}

	path := req.URL.EscapedPath()
	if path == "" {
		path = "/"
	}
	var query url.Values
	if req.URL.RawQuery != "" {
		query = req.URL.Query()
	}
	return &SigningRequest{
		Method:  req.Method,
		Path:    path,
		Query:   query,
		Headers: headers,
		Body:    body,
	}
}
