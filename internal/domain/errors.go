package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid or missing
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductNotFound is returned when no product matches the query
	ErrProductNotFound = errors.New("product not found")

	// ErrNoProductName is returned when a product name cannot be extracted from a command
	ErrNoProductName = errors.New("could not extract product name")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCompletionUnavailable is returned when the text-completion service is
	// not configured or failed its startup probe
	ErrCompletionUnavailable = errors.New("text completion service unavailable")

	// ErrCompletionFailure is returned when a text-completion request fails
	ErrCompletionFailure = errors.New("text completion request failed")
)
