package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrMissingSigner   = errors.New("signer is required")
)

// ServiceError is a non-2xx response from the service after the last attempt.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
	// Raw response body, kept for callers that relay it.
	Snapshot []byte
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error: status %d, code %q, message %q, request id %q",
		e.StatusCode, e.Code, e.Message, e.RequestID)
}

// Retryable reports whether the status is one the client retries.
func (e *ServiceError) Retryable() bool {
	return shouldRetryStatus(e.StatusCode)
}

// The service reports errors as {"RequestId": "...", "Code": "...", "Message": "..."}.
type errorBody struct {
	RequestID string `json:"RequestId"`
	Code      string `json:"Code"`
	Message   string `json:"Message"`
}

func newServiceError(status int, requestID string, body []byte) *ServiceError {
	serr := &ServiceError{
		StatusCode: status,
		RequestID:  requestID,
		Snapshot:   body,
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		serr.Code = eb.Code
		serr.Message = eb.Message
		if serr.RequestID == "" {
			serr.RequestID = eb.RequestID
		}
	}
	if serr.Message == "" {
		serr.Message = string(body)
	}
	return serr
}
