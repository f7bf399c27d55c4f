package store

import (
	"errors"
	"fmt"

	"tableflip.dev/navtree/pkg/catalog"
)

// ErrDocumentNotFound is returned by a Backend when no document exists for a
// catalog id.
var ErrDocumentNotFound = errors.New("store: document not found")

// PersistenceError reports a failed read or write of a catalog document.
// Writes are retried before this error surfaces; callers may retry again.
type PersistenceError struct {
	CatalogID string
	Op        string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s catalog %q: %v", e.Op, e.CatalogID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Retryable is always true; persistence failures are transient from the
// caller's point of view.
func (e *PersistenceError) Retryable() bool { return true }

func unknownCatalog(id string) error {
	return catalog.NotFoundError{Kind: "catalog", ID: id}
}
