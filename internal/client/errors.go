// ABOUTME: Error taxonomy for the contact manager API client
// ABOUTME: Classifies HTTP failures so callers can branch on kind

package client

import (
	"errors"
	"fmt"
)

// Kind partitions API failures into the classes callers act on
type Kind int

const (
	// KindNetwork means no response was received at all
	KindNetwork Kind = iota
	// KindUnauthorized covers 401 and 403: the session is invalid or expired
	KindUnauthorized
	// KindNotFound covers 404
	KindNotFound
	// KindValidation covers other 4xx responses, optionally with field errors
	KindValidation
	// KindServer covers 5xx responses
	KindServer
)

// String returns the kind name for logs and error messages
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is returned for every failed API call. StatusCode is zero for
// network errors and preserves the exact HTTP status otherwise.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend returned status %d", e.Kind, e.StatusCode)
	}
	return e.Kind.String() + " error"
}

// classify maps an HTTP status to an error kind
func classify(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindUnauthorized
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// IsUnauthorized reports whether err is an API error for an invalid session
func IsUnauthorized(err error) bool {
	return isKind(err, KindUnauthorized)
}

// IsNotFound reports whether err is an API error for a missing record
func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

// IsValidation reports whether err is an API error for rejected input
func IsValidation(err error) bool {
	return isKind(err, KindValidation)
}

// IsNetwork reports whether err means the backend was never reached
func IsNetwork(err error) bool {
	return isKind(err, KindNetwork)
}

func isKind(err error, k Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == k
}
