package hn

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to callers. Operations wrap these with context,
// so callers discover the kind via errors.Is / errors.As.
var (
	// ErrTimeout reports that a bounded fetch exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNotFound reports a lookup whose upstream result set was empty.
	ErrNotFound = errors.New("not found")

	// ErrMalformed reports an upstream payload missing expected
	// structure. It propagates like any other fetch failure.
	ErrMalformed = errors.New("malformed response")
)

// FetchError is a non-timeout upstream failure carrying the HTTP status.
type FetchError struct {
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}
