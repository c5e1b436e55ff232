package data

import (
	"errors"
	"fmt"
)

// Provider error codes.
const (
	CodeNotFound    = "NOT_FOUND"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	CodeAPIError    = "API_ERROR"
	CodeEmptySeries = "EMPTY_SERIES"
)

// ErrDroppedWhenCached marks a ticker that was unavailable when the cached
// history it belongs to was fetched.
var ErrDroppedWhenCached = errors.New("unavailable when this history was fetched")

// ProviderError represents an error from the market-data provider.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsProviderError reports whether err carries a ProviderError with the given code.
func IsProviderError(err error, code string) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == code
}

// Warning is a non-fatal problem: a ticker dropped from a history.
type Warning struct {
	Ticker string
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("no data for %s: %v", w.Ticker, w.Err)
}
