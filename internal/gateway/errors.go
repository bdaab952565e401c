package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoRefreshToken is returned when a 401 arrives and no refresh token is
// stored. The session is cleared without any call to the refresh endpoint.
var ErrNoRefreshToken = errors.New("no refresh token available")

// NetworkError indicates no usable response was received (DNS, connect,
// timeout). Timed-out requests surface here per the gateway contract.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response from the server. Message carries the
// server's {message|detail}; Fields carries per-field validation errors when
// the server provides them.
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string][]string
	Body    []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("server rejected request with status %d", e.Status)
}

// statusIs reports whether err is an HTTPError with the given status.
func statusIs(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsConflict reports whether err is a 409 response.
func IsConflict(err error) bool { return statusIs(err, http.StatusConflict) }

// IsUnauthorized reports whether err is a 401 response (post-refresh).
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
