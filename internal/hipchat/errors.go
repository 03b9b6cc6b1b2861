package hipchat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrMissingIdentifier is returned when a required id or name argument
	// is empty. No request is issued in that case.
	ErrMissingIdentifier = errors.New("missing identifier")

	// ErrNotImplemented is returned by operations HipChat documents but this
	// client does not wire to an endpoint.
	ErrNotImplemented = errors.New("not implemented")
)

// APIError reports an unsuccessful HTTP status from the HipChat API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("hipchat %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("hipchat %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// newAPIError builds an APIError, decoding the HipChat error envelope
// {"error":{"code":..,"message":..,"type":..}} when the body carries one.
func newAPIError(method, path string, resp *Response) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	envelope := gjson.GetBytes(resp.Raw(), "error")
	if envelope.IsObject() {
		apiErr.Code = int(envelope.Get("code").Int())
		apiErr.Type = envelope.Get("type").String()
		apiErr.Message = envelope.Get("message").String()
	}
	return apiErr
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// an API error.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
