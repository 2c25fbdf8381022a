package leaderboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a year, division or page the API cannot serve.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse means a required key was absent or had the wrong type.
	ErrMalformedResponse = errors.New("malformed response")
)

// NetworkError describes a failed request. It matches ErrNetwork and
// unwraps to the transport error, if there was one.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrNetwork}
	}
	return []error{ErrNetwork, e.Err}
}

// MalformedResponseError names the key that could not be read.
type MalformedResponseError struct {
	Key    string
	Detail string
}

func (e *MalformedResponseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("malformed response: key %q: %s", e.Key, e.Detail)
	}
	return fmt.Sprintf("malformed response: key %q missing", e.Key)
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

func invalidArgument(name string, value int) error {
	return fmt.Errorf("%w: %s=%d", ErrInvalidArgument, name, value)
}
