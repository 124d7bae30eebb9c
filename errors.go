package main

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn     = errors.New("required column is absent")
	ErrUnparseableDate   = errors.New("can't parse date")
	ErrUnparseableAmount = errors.New("can't parse amount")
	ErrUnknownPlatform   = errors.New("unknown platform")
)

// StatementClassificationError is returned when a statement of one platform can't be normalized.
// Other platforms are not affected.
type StatementClassificationError struct {
	Platform string
	Err      error
}

func (e *StatementClassificationError) Error() string {
	return fmt.Sprintf("%s: statement classification failed: %v", e.Platform, e.Err)
}

func (e *StatementClassificationError) Unwrap() error {
	return e.Err
}

func classificationError(platform string, format string, args ...any) error {
	return &StatementClassificationError{Platform: platform, Err: fmt.Errorf(format, args...)}
}
