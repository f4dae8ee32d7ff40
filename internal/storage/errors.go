package storage

import "errors"

var (
	// ErrInvalidMonth rejects month indexes outside [0,12].
	ErrInvalidMonth = errors.New("month out of range")

	// ErrInvalidPhotos rejects a nil photo sequence on save.
	ErrInvalidPhotos = errors.New("invalid photo sequence")

	// ErrInvalidRecord rejects a nil month record on save.
	ErrInvalidRecord = errors.New("invalid month record")

	// ErrQuotaExceeded is returned when a record store write would grow the
	// backing file beyond the configured budget. Not retried.
	ErrQuotaExceeded = errors.New("record store quota exceeded")

	// ErrPersistence wraps backend write failures. Callers are expected to
	// inform the user and leave prior state untouched.
	ErrPersistence = errors.New("persistence failure")
)
