package catalog

import (
	"errors"
	"fmt"
)

// ErrDuplicateGroup is returned by New when more than one container type is
// registered.
var ErrDuplicateGroup = errors.New("catalog: only one group item type may be registered")

// NotFoundError reports a missing item, action or catalog.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// UnknownTypeError is returned when no handler is registered for an item type.
type UnknownTypeError struct {
	Type string
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown item type: %q", e.Type)
}

// Is lets errors.Is(err, NotFoundError{}) match unknown types.
func (e UnknownTypeError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	return ok
}

// ValidationError is raised by handlers that reject their input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "invalid item: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CorruptTreeError reports a parent chain that loops or runs too deep.
type CorruptTreeError struct {
	ID     string
	Reason string
}

func (e CorruptTreeError) Error() string {
	return fmt.Sprintf("corrupt tree at %s: %s", e.ID, e.Reason)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError or an
// UnknownTypeError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	if errors.As(err, &nf) {
		return true
	}
	var ut UnknownTypeError
	return errors.As(err, &ut)
}
