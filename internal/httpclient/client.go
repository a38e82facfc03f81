// Package httpclient provides the HTTP client used for calls to remote APIs
package httpclient

import (
	"net/http"
	"time"

	"github.com/threadsync/threadsync/internal/versions"
)

// DefaultTimeout is the default timeout for HTTP requests
const DefaultTimeout = 30 * time.Second

// UserAgent returns the user agent string sent on every request
func UserAgent() string {
	return "threadsync/" + versions.Version
}

// NewClient creates an HTTP client with the given timeout that identifies itself
// with UserAgent. If timeout is 0, uses DefaultTimeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{next: http.DefaultTransport},
	}
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", UserAgent())
	return t.next.RoundTrip(clone)
}
