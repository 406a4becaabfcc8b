// Package client issues signed calls against an ACS3 API endpoint, re-signing every attempt.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jayantasamaddar/go-acssigner/acs3"
	"github.com/jayantasamaddar/go-acssigner/auth"
)

const (
	// SearchCaseFullTextAction is the legal case full-text search operation.
	SearchCaseFullTextAction = "RunSearchCaseFullText"
	// SearchAPIVersion is the API version the search operation is published under.
	SearchAPIVersion = "2024-06-28"

	defaultContentType = "application/json"
	requestIDHeader    = "x-acs-request-id"
)

// Options configures a Client.
type Options struct {
	// Host name such as "farui.cn-beijing.aliyuncs.com", or a full "http(s)://host[:port]" base URL.
	Endpoint   string
	HTTPClient *http.Client
	// Total attempts per call, including the first. Defaults to DefaultMaxAttempts.
	MaxAttempts int
	BaseDelay   time.Duration
	MaxBackoff  time.Duration
	Logger      *slog.Logger
	Metrics     *Metrics
}

// Operation is one API call.
type Operation struct {
	Action  string
	Version string
	// Defaults to POST.
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

// Response is a 2xx reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

type Client struct {
	signer  auth.Signer
	baseURL *url.URL
	http    *http.Client
	opts    Options
	logger  *slog.Logger
}

// New returns a Client that signs each attempt with signer.
func New(signer auth.Signer, opts Options) (*Client, error) {
	if signer == nil {
		return nil, ErrMissingSigner
	}
	baseURL, err := resolveEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = DefaultMaxBackoff
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		signer:  signer,
		baseURL: baseURL,
		http:    opts.HTTPClient,
		opts:    opts,
		logger:  logger,
	}, nil
}

func resolveEndpoint(endpoint string) (*url.URL, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint is empty", ErrInvalidEndpoint)
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: no host in %q", ErrInvalidEndpoint, endpoint)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// Endpoint returns the resolved base URL.
func (c *Client) Endpoint() string {
	return c.baseURL.String()
}

// SearchCaseFullTextPath is the request path of the full-text search for a workspace.
func SearchCaseFullTextPath(workspaceID string) string {
	return "/" + url.PathEscape(workspaceID) + "/farui/search/case/fulltext"
}

// RunSearchCaseFullText posts a JSON search body to the workspace's full-text case search.
func (c *Client) RunSearchCaseFullText(ctx context.Context, workspaceID string, body []byte) (*Response, error) {
	if strings.TrimSpace(workspaceID) == "" {
		return nil, fmt.Errorf("%w: workspace id is required", acs3.ErrMalformedRequest)
	}
	return c.Invoke(ctx, Operation{
		Action:  SearchCaseFullTextAction,
		Version: SearchAPIVersion,
		Method:  http.MethodPost,
		Path:    SearchCaseFullTextPath(workspaceID),
		Body:    body,
	})
}

// Invoke signs and sends op, retrying transport errors and 429/5xx replies. Each attempt carries a
// fresh date and nonce.
func (c *Client) Invoke(ctx context.Context, op Operation) (*Response, error) {
	start := time.Now()
	resp, err := c.invoke(ctx, op)
	c.opts.Metrics.observeCall(op.Action, start, err)
	return resp, err
}

func (c *Client) invoke(ctx context.Context, op Operation) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt < c.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(attempt, c.opts.BaseDelay, c.opts.MaxBackoff)
			c.logger.Debug("retrying call",
				slog.String("action", op.Action),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
				slog.String("error", lastErr.Error()),
			)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		resp, retry, err := c.attempt(ctx, op)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	c.logger.Warn("call failed",
		slog.String("action", op.Action),
		slog.String("error", lastErr.Error()),
	)
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, op Operation) (*Response, bool, error) {
	req, err := c.newRequest(ctx, op)
	if err != nil {
		return nil, false, err
	}
	if err := c.signer.SignHTTPRequest(req); err != nil {
		return nil, false, fmt.Errorf("sign request: %w", err)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		c.opts.Metrics.observeAttempt(op.Action, 0)
		return nil, shouldRetry(err), fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()
	c.opts.Metrics.observeAttempt(op.Action, httpResp.StatusCode)

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, shouldRetry(err), fmt.Errorf("read response: %w", err)
	}
	requestID := httpResp.Header.Get(requestIDHeader)
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		serr := newServiceError(httpResp.StatusCode, requestID, body)
		return nil, serr.Retryable(), serr
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
		RequestID:  requestID,
	}, false, nil
}

func (c *Client) newRequest(ctx context.Context, op Operation) (*http.Request, error) {
	method := op.Method
	if method == "" {
		method = http.MethodPost
	}
	if !strings.HasPrefix(op.Path, "/") {
		return nil, fmt.Errorf("%w: path must start with '/'", acs3.ErrMalformedRequest)
	}
	u := *c.baseURL
	u.RawPath = c.baseURL.Path + op.Path
	if path, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = path
	}
	u.RawQuery = ""
	if len(op.Query) > 0 {
		u.RawQuery = op.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if len(op.Body) > 0 {
		body = bytes.NewReader(op.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	contentType := op.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set(acs3.HeaderContentType, contentType)
	if op.Action != "" {
		req.Header.Set(acs3.HeaderAction, op.Action)
	}
	if op.Version != "" {
		req.Header.Set(acs3.HeaderVersion, op.Version)
	}
	return req, nil
}
