package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx response from the ESG backend.
type APIError struct {
	StatusCode int
	// Detail is the backend's `detail` message, empty when none was sent.
	Detail string
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}

func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}
	if gjson.ValidBytes(body) {
		if detail := gjson.GetBytes(body, "detail"); detail.Type == gjson.String {
			apiErr.Detail = detail.String()
		}
	}
	return apiErr
}

// NetworkError means no response was received from the backend.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

// ErrorMessage turns any error into the single string shown to users:
// the backend `detail` when present, then the error's own message, then a
// generic fallback.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Request failed"
}
