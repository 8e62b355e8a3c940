package models

import "errors"

var (
	// ErrNotFound indicates the referenced analysis record does not exist.
	ErrNotFound = errors.New("analysis record not found")

	// ErrInvalidPattern indicates an empty or malformed pattern name.
	ErrInvalidPattern = errors.New("invalid pattern name")

	// ErrFeedbackRecorded indicates feedback was already submitted for a record.
	ErrFeedbackRecorded = errors.New("feedback already recorded")
)
