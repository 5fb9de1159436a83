package domain

import "errors"

var (
	// ErrNotFound is returned for lookups of unknown or terminated sessions.
	ErrNotFound = errors.New("session not found")

	// ErrEmptyMessage rejects empty or all-whitespace input before a turn starts.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrRateLimited marks a transient rate-limiting failure from the
	// generation provider; the orchestrator retries these.
	ErrRateLimited = errors.New("rate limited")
)
