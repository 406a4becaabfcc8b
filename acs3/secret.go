package acs3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SecretProvider resolves the secret belonging to an access key id on the verifying side.
type SecretProvider interface {
	Secret(ctx context.Context, accessKeyID string) (string, error)
}

// StaticSecrets maps access key ids to secrets.
type StaticSecrets map[string]string

func (s StaticSecrets) Secret(_ context.Context, accessKeyID string) (string, error) {
	secret, ok := s[accessKeyID]
	if !ok || secret == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccessKey, accessKeyID)
	}
	return secret, nil
}

const (
	defaultSecretMaxAttempts = 3
	defaultSecretBaseDelay   = time.Second
	defaultSecretTimeout     = 15 * time.Second
)

// HTTPSecretProvider asks a remote endpoint for the secret of an access key id. The endpoint
// receives `{"access_key_id": "..."}` via POST and answers `{"secret_access_key": "..."}`.
type HTTPSecretProvider struct {
	url         string
	client      *http.Client
	maxAttempts int
	baseDelay   time.Duration
}

type secretRetrievalResponse struct {
	SecretAccessKey string `json:"secret_access_key"`
}

// HTTPSecretOption configures an HTTPSecretProvider.
type HTTPSecretOption func(*HTTPSecretProvider)

func WithSecretHTTPClient(client *http.Client) HTTPSecretOption {
	return func(p *HTTPSecretProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithSecretRetry sets the attempt budget and the first backoff delay, doubled on each retry.
func WithSecretRetry(maxAttempts int, baseDelay time.Duration) HTTPSecretOption {
	return func(p *HTTPSecretProvider) {
		if maxAttempts > 0 {
			p.maxAttempts = maxAttempts
		}
		if baseDelay >= 0 {
			p.baseDelay = baseDelay
		}
	}
}

func NewHTTPSecretProvider(secretRetrievalURL string, opts ...HTTPSecretOption) (*HTTPSecretProvider, error) {
	if strings.TrimSpace(secretRetrievalURL) == "" {
		return nil, fmt.Errorf("%w: secretRetrievalURL", ErrMissingCredentials)
	}
	p := &HTTPSecretProvider{
		url:         secretRetrievalURL,
		client:      &http.Client{Timeout: defaultSecretTimeout},
		maxAttempts: defaultSecretMaxAttempts,
		baseDelay:   defaultSecretBaseDelay,
	}
	for _, fn := range opts {
		fn(p)
	}
	return p, nil
}

// Secret tries to get the secret access key, retrying with exponential backoff in case of failure
func (p *HTTPSecretProvider) Secret(ctx context.Context, accessKeyID string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := p.baseDelay * time.Duration(1<<(attempt-1))
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return "", ctx.Err()
			}
		}

		secret, err := p.retrieveSecret(ctx, accessKeyID)
		if err == nil {
			return secret, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("exceeded maximum attempts: %w", lastErr)
}

// `retrieveSecret` makes one attempt to retrieve the secret access key, observing the provided context's deadline
func (p *HTTPSecretProvider) retrieveSecret(ctx context.Context, accessKeyID string) (string, error) {
	payload, err := json.Marshal(map[string]string{"access_key_id": accessKeyID})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("non-OK HTTP status: %d, body: %s", res.StatusCode, string(bodyBytes))
	}

	var resp secretRetrievalResponse
	if err = json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return "", err
	}
	if resp.SecretAccessKey == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccessKey, accessKeyID)
	}
	return resp.SecretAccessKey, nil
}
