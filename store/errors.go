package store

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that no record exists for the requested key.
var ErrNotFound = errors.New("record not found")

// StoreError wraps any backend failure with its originating operation.
// Store failures are non-retryable at this layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("database error (%s): %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrapErr wraps a backend error with the operation name.
func wrapErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
