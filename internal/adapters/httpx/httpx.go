// Package httpx holds the HTTP plumbing shared by the provider adapters: a client with
// a fixed timeout and the mapping of transport failures and status codes onto apperrors.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
)

const maxErrorBody = 512

// NewClient returns an http.Client with the given overall timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// TransportError classifies an error returned by http.Client.Do. The request URL is
// dropped from the message because some providers take credentials as query parameters.
func TransportError(provider string, err error) error {
	kind := apperrors.ErrNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = apperrors.ErrTimeout
	}

	detail := err.Error()
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		detail = fmt.Sprintf("%s request failed: %v", urlErr.Op, urlErr.Err)
	}
	return fmt.Errorf("%w: %s: %s", kind, provider, detail)
}

// StatusError classifies a non-2xx response. The body is consumed.
func StatusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = apperrors.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = apperrors.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		kind = apperrors.ErrNotFound
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		kind = apperrors.ErrTimeout
	default:
		kind = apperrors.ErrUpstream
	}
	return fmt.Errorf("%w: %s returned status %d: %s", kind, provider, resp.StatusCode, detail)
}

// IsSuccess reports whether code is 2xx.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
