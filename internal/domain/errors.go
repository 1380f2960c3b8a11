// Package domain holds the error taxonomy shared by every layer of the
// service. Each failure carries an ErrorKind so the HTTP layer can translate
// it without inspecting messages.
package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an application error.
type ErrorKind string

const (
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindValidation ErrorKind = "VALIDATION"
	KindConflict   ErrorKind = "CONFLICT"
	KindStorage    ErrorKind = "STORAGE"
	KindIO         ErrorKind = "IO"
	KindDecode     ErrorKind = "DECODE"
	KindInternal   ErrorKind = "INTERNAL"
)

// AppError is a classified, recoverable failure.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewValidationError reports rejected input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewConflictError reports an operation that clashes with existing state.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewStorageError wraps a record store failure.
func NewStorageError(op string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: op, Err: err}
}

// NewIOError wraps a file open/copy/delete failure.
func NewIOError(op string, err error) *AppError {
	return &AppError{Kind: KindIO, Message: op, Err: err}
}

// NewDecodeError wraps malformed image or video metadata.
func NewDecodeError(op string, err error) *AppError {
	return &AppError{Kind: KindDecode, Message: op, Err: err}
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// MessageOf returns the user-facing message of the first AppError in the
// chain, falling back to err.Error().
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
