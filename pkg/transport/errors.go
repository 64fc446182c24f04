package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"
)

// Error definitions for transport package.
var (
	// ErrNotFound is returned when the upstream answered 404.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidResponse is returned for every other non-success status.
	ErrInvalidResponse = errors.New("invalid response from hosting API")
	// ErrRateLimited is returned, along with ErrInvalidResponse, when the upstream rate limit was hit.
	ErrRateLimited = errors.New("rate limited by hosting API")
	// ErrUnreachable is returned when no response was received.
	ErrUnreachable = errors.New("hosting API unreachable")
)

// Reason is the decoded error body sent by the hosting API. It is the zero
// value when the body was empty or not JSON.
type Reason struct {
	Message          string
	DocumentationURL string
	Errors           []github.Error
}

// ResponseError describes a non-success HTTP status returned by the hosting API.
type ResponseError struct {
	StatusCode  int
	Method      string
	URL         string
	Reason      Reason
	rateLimited bool
}

// NewResponseError builds the error returned for a non-success status.
func NewResponseError(method, url string, statusCode int, reason Reason) *ResponseError {
	return &ResponseError{
		StatusCode: statusCode,
		Method:     method,
		URL:        url,
		Reason:     reason,
	}
}

func (e *ResponseError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "received %d from %s %s", e.StatusCode, e.Method, e.URL)
	if e.Reason.Message != "" {
		fmt.Fprintf(&builder, ": %s", e.Reason.Message)
	}
	for _, fieldErr := range e.Reason.Errors {
		if fieldErr.Message != "" {
			fmt.Fprintf(&builder, "; %s.%s: %s", fieldErr.Resource, fieldErr.Field, fieldErr.Message)
		} else {
			fmt.Fprintf(&builder, "; %s.%s: %s", fieldErr.Resource, fieldErr.Field, fieldErr.Code)
		}
	}
	return builder.String()
}

// Unwrap exposes the error classes this response belongs to.
func (e *ResponseError) Unwrap() []error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return []error{ErrNotFound}
	case e.rateLimited:
		return []error{ErrRateLimited, ErrInvalidResponse}
	default:
		return []error{ErrInvalidResponse}
	}
}

// IsNotFound reports whether err comes from a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransient reports whether retrying the same call may succeed: the
// upstream could not be reached or answered with a server error.
// Client errors such as 404 or 422 are never transient.
func IsTransient(err error) bool {
	if errors.Is(err, ErrUnreachable) {
		return true
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
