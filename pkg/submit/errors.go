package submit

import (
	"fmt"
	"net/http"
)

// NetworkError reports a request that did not produce a usable response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("submit: request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError reports a completed request with a non-success status.
type RejectedError struct {
	StatusCode int
	Detail     string
	Response   Response
}

func (e *RejectedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("submit: rejected with status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("submit: rejected with status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}
