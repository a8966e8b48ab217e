package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveMember     = errors.New("member is inactive")
)

// StoreErrorKind classifies a failure reported by the document store.
type StoreErrorKind string

const (
	StoreNetwork          StoreErrorKind = "network"
	StorePermissionDenied StoreErrorKind = "permission_denied"
	StoreNotFound         StoreErrorKind = "not_found"
)

// StoreError is returned by every DocumentStore backend. The underlying
// driver error is kept so callers can log it.
type StoreError struct {
	Op         string
	Collection string
	Kind       StoreErrorKind
	Err        error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s %s: %s", e.Op, e.Collection, e.Kind)
	}
	return fmt.Sprintf("store %s %s: %s: %v", e.Op, e.Collection, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) and errors.Is(err, ErrPermissionDenied)
// match store failures of the corresponding kind.
func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == StoreNotFound
	case ErrPermissionDenied:
		return e.Kind == StorePermissionDenied
	}
	return false
}

// NewStoreError builds a StoreError.
func NewStoreError(op, collection string, kind StoreErrorKind, err error) *StoreError {
	return &StoreError{Op: op, Collection: collection, Kind: kind, Err: err}
}

// validationError wraps ErrValidation with a field-level message.
func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
