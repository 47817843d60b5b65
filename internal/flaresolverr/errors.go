package flaresolverr

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates no proxy base URL was provided
var ErrNotConfigured = errors.New("FlareSolverr URL is not configured")

// ErrUnavailable indicates the proxy did not answer its health probe
var ErrUnavailable = errors.New("FlareSolverr is unavailable")

// StatusError represents a non-success HTTP response from the proxy itself
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("FlareSolverr returned HTTP %d", e.StatusCode)
}

// ProxyError represents a request the proxy accepted but could not complete,
// e.g. a challenge it failed to solve or a navigation timeout
type ProxyError struct {
	Status  string
	Message string
}

func (e *ProxyError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("FlareSolverr request failed with status %q", e.Status)
	}
	return fmt.Sprintf("FlareSolverr request failed: %s", e.Message)
}
