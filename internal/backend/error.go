package backend

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Causes carried by *Error besides network failures.
var (
	ErrStatus      = errors.New("unexpected status")
	ErrInvalidJSON = errors.New("response is not valid JSON")
)

// Error is the only error kind returned by Client. It reports a request that
// could not be completed against the backend: the request was not sent, the
// connection failed, the status was not 2xx, or the body was not JSON.
type Error struct {
	Method     string
	URL        string
	StatusCode int
	// Body is a truncated copy of the response body, if any was read.
	Body string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil && !errors.Is(e.Err, ErrStatus) {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

const maxBodySnippet = 512

func snippet(data []byte) string {
	if len(data) > maxBodySnippet {
		return string(data[:maxBodySnippet]) + "..."
	}
	return string(data)
}
