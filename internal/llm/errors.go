package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RateLimitError is returned when the provider answers 429.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// InvalidResponseError is returned when the reply is not JSON or does not
// match the requested schema.
type InvalidResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// UnavailableError covers server errors and transport failures.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "LLM provider unavailable"
	}
	return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// TruncatedError is returned when a structured reply hit MaxTokens.
type TruncatedError struct {
	Content json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "LLM response truncated at max tokens"
}

// classifyStatus maps an HTTP status from any SDK onto the error types
// above.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Err: err}
	case status >= 500:
		return &UnavailableError{Err: err}
	case status >= 400:
		return fmt.Errorf("LLM request rejected (%d): %w", status, err)
	}
	return &UnavailableError{Err: err}
}

// IsPermanent reports whether retrying err cannot help.
func IsPermanent(err error) bool {
	var trunc *TruncatedError
	var rl *RateLimitError
	var unavail *UnavailableError
	var inv *InvalidResponseError
	switch {
	case errors.As(err, &trunc):
		return true
	case errors.As(err, &rl), errors.As(err, &unavail), errors.As(err, &inv):
		return false
	}
	return true
}
