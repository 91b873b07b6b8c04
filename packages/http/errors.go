package http

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMissingURL        = errors.New("URL is required")
	ErrMissingHost       = errors.New("host is required")
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrNonUTF8Body       = errors.New("response body is not valid UTF-8")
)

// TransportError reports a failure while talking to the server: DNS,
// connect, TLS, timeout or reading the response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ExecError is returned by Client.Execute. It carries the time spent
// before the failure, measured from the start of request assembly.
type ExecError struct {
	Err      error
	Duration time.Duration
	// Request is set when assembly succeeded and the failure happened later.
	Request *PreparedRequest
}

func (e *ExecError) Error() string {
	return e.Err.Error()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

func unsupportedMethod(method string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
}
