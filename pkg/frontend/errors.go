package frontend

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/navtree/pkg/catalog"
)

// Code classifies an Error for the UI.
type Code string

const (
	CodeNotFound    Code = "not_found"
	CodeInvalid     Code = "invalid"
	CodePersistence Code = "persistence"
	CodeConflict    Code = "conflict"
	CodeCanceled    Code = "canceled"
	CodeInternal    Code = "internal"
)

// Error is what every Sync method returns on failure.
type Error struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
	Err       error  `json:"-"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// AsError returns err as *Error when it is one.
func AsError(err error) (*Error, bool) {
	var fe *Error
	ok := errors.As(err, &fe)
	return fe, ok
}

type retryable interface {
	Retryable() bool
}

func classify(err error) *Error {
	if fe, ok := AsError(err); ok {
		return fe
	}
	e := &Error{Code: CodeInternal, Message: err.Error(), Err: err}

	var (
		verr    catalog.ValidationError
		corrupt catalog.CorruptTreeError
		retry   retryable
	)
	switch {
	case catalog.IsNotFound(err):
		e.Code = CodeNotFound
	case errors.As(err, &verr):
		e.Code = CodeInvalid
	case errors.As(err, &corrupt), errors.Is(err, catalog.ErrDuplicateGroup):
		e.Code = CodeConflict
	case errors.As(err, &retry):
		e.Code = CodePersistence
		e.Retryable = retry.Retryable()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		e.Code = CodeCanceled
		e.Retryable = true
	}
	return e
}
