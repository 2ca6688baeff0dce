// Package resilience provides retry with exponential backoff for the
// external data providers, plus transient-error classification.
package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// StatusError is a non-2xx HTTP response from a provider. Retryability is
// decided from the status code.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: http %d: %s", e.Provider, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: http %d", e.Provider, e.Status)
}

// NewStatusError builds a StatusError, truncating long response bodies.
func NewStatusError(provider string, status int, body string) *StatusError {
	if len(body) > 200 {
		body = body[:200]
	}
	return &StatusError{Provider: provider, Status: status, Body: strings.TrimSpace(body)}
}

// RetryableStatus reports whether an HTTP status is worth retrying.
// 429 matters most here: both FEC and Kalshi rate-limit aggressively.
func RetryableStatus(status int) bool {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// Retryable classifies an error as transient. StatusError is judged by its
// code; network timeouts, resets, and DNS hiccups are always transient.
func Retryable(err error) bool {
	if err == nil {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return RetryableStatus(se.Status)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
