// ABOUTME: Typed request failures raised by the API client
// ABOUTME: Distinguishes network, non-2xx HTTP and body decode failures

package api

import (
	"errors"
	"fmt"
)

// FailureKind classifies a RequestFailure.
type FailureKind string

const (
	// KindNetwork means no response reached the client.
	KindNetwork FailureKind = "network"
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP FailureKind = "http"
	// KindDecode means the response body was not valid JSON for the expected shape.
	KindDecode FailureKind = "decode"
)

// maxFailureBody caps how much of an error body is retained.
const maxFailureBody = 4096

// RequestFailure is returned by every Client call that does not succeed.
type RequestFailure struct {
	Kind   FailureKind
	Method string
	Path   string
	Status int    // set for KindHTTP
	Body   string // raw body for KindHTTP, truncated
	Err    error  // underlying cause for KindNetwork and KindDecode
}

func (f *RequestFailure) Error() string {
	switch f.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s %s: server returned status %d", f.Method, f.Path, f.Status)
	case KindDecode:
		return fmt.Sprintf("%s %s: decoding response: %v", f.Method, f.Path, f.Err)
	default:
		return fmt.Sprintf("%s %s: %v", f.Method, f.Path, f.Err)
	}
}

func (f *RequestFailure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a RequestFailure from err.
func AsFailure(err error) (*RequestFailure, bool) {
	var f *RequestFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsNetwork reports whether err is a network failure.
func IsNetwork(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindNetwork
}

// IsHTTP reports whether err is a non-2xx response.
func IsHTTP(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindHTTP
}

// IsDecode reports whether err is a malformed response body.
func IsDecode(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == KindDecode
}

// StatusCode returns the HTTP status of a KindHTTP failure, or 0.
func StatusCode(err error) int {
	if f, ok := AsFailure(err); ok && f.Kind == KindHTTP {
		return f.Status
	}
	return 0
}
