package client

import (
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultMaxAttempts int = 3

	DefaultMaxBackoff time.Duration = 20 * time.Second
	DefaultBaseDelay  time.Duration = 200 * time.Millisecond
)

var retriableErrorStrings = []string{
	"use of closed network connection",
	"unexpected EOF reading trailer",
	"transport connection broken",
	"server closed idle connection",
	"connection reset by peer",
	"connection refused",
	"bad record MAC",
	"stream error:",
	"tls: use of closed connection",
}

// shouldRetry reports whether a transport error is worth another attempt.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	errString := err.Error()
	for _, phrase := range retriableErrorStrings {
		if strings.Contains(errString, phrase) {
			return true
		}
	}
	return false
}

// shouldRetryStatus reports whether the service asked us to back off or failed server side.
func shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// backoffDelay is full jitter: a random duration in [0, min(maxDelay, base*2^attempt)].
func backoffDelay(attempt int, base, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	ceil := maxDelay
	if attempt < 32 {
		if d := base << uint(attempt); d>>uint(attempt) == base && d < maxDelay {
			ceil = d
		}
	}
	return time.Duration(rand.Int63n(int64(ceil) + 1))
}
