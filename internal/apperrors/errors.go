package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnsupportedFormat indicates that an uploaded document could not be parsed.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrIngestion indicates that a document was readable but could not be indexed.
var ErrIngestion = errors.New("document ingestion failed")

// ErrRateLimited indicates that an upstream provider rejected the call with HTTP 429.
var ErrRateLimited = errors.New("upstream rate limit exceeded")

// ErrUnauthorized indicates that an upstream provider rejected our credentials.
var ErrUnauthorized = errors.New("upstream authentication failed")

// ErrTimeout indicates that an upstream call did not complete in time.
var ErrTimeout = errors.New("upstream request timed out")

// ErrUpstream indicates any other non-success status from an upstream provider.
var ErrUpstream = errors.New("upstream error")

// ErrMalformedResponse indicates that an upstream payload was missing fields or not parseable.
var ErrMalformedResponse = errors.New("malformed upstream response")

// ErrNetwork indicates a transport-level failure talking to an upstream provider.
var ErrNetwork = errors.New("network error")

// ErrPlanner indicates that the LLM planning loop failed.
var ErrPlanner = errors.New("planner error")

// ErrQueueFull indicates that a bounded queue rejected an item.
var ErrQueueFull = errors.New("queue is full")

// ErrQueueClosed indicates that a queue no longer accepts items.
var ErrQueueClosed = errors.New("queue is closed")

// ErrNotConfigured indicates that a required credential or endpoint is missing.
var ErrNotConfigured = errors.New("not configured")
